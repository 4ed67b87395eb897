package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells, ending in an ellipsis
// when anything was cut. Newlines collapse to spaces.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// Fit truncates s to width and right-pads it with spaces to exactly width
// cells.
func Fit(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// OrDash returns s, or "-" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
