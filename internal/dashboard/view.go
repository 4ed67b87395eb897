package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"movieflix/internal/catalog"
	"movieflix/internal/media"
	"movieflix/internal/poster"
	"movieflix/internal/textutil"
)

// chrome is the number of lines taken by everything except the entry list.
const chrome = 12

type column struct {
	title string
	width int
	value func(media.Entry) string
}

var tableColumns = []column{
	{"Title", 30, func(e media.Entry) string { return e.Title }},
	{"Type", 8, func(e media.Entry) string { return e.Type.Label() }},
	{"Director", 20, func(e media.Entry) string { return e.Director }},
	{"Year", 9, func(e media.Entry) string { return e.Year }},
	{"Location", 16, func(e media.Entry) string { return e.Location }},
	{"Duration", 10, func(e media.Entry) string { return e.Duration }},
	{"Budget", 12, func(e media.Entry) string { return e.Budget }},
}

var typeLabels = map[string]string{
	catalog.TypeAll:   "All",
	catalog.TypeMovie: "Movies",
	catalog.TypeTV:    "TV Shows",
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("My Collection"))
	b.WriteString("\n")
	b.WriteString(m.styles.subtitle.Render("Manage your favorite movies and TV shows"))
	b.WriteString("\n\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	switch {
	case m.confirm != nil:
		b.WriteString(m.styles.confirm.Render(catalog.DeletePrompt(m.confirm.Title) + "\n\n[y] delete   [n] cancel"))
	case m.loading && len(m.entries) == 0:
		b.WriteString(m.spinner.View() + " Loading entries...")
	case len(m.filtered) == 0:
		b.WriteString(m.styles.muted.Render(catalog.EmptyMessage(m.query)))
	case m.view == ViewGrid:
		b.WriteString(m.renderGrid())
	default:
		b.WriteString(m.renderTable())
	}
	b.WriteString("\n")

	if len(m.filtered) > 0 && m.confirm == nil {
		b.WriteString(m.styles.muted.Render(m.progressLine()))
		b.WriteString("\n")
		if m.detail {
			if entry, ok := m.Selected(); ok {
				b.WriteString(m.styles.detail.Render(renderDetail(entry)))
				b.WriteString("\n")
			}
		}
	}

	if m.toast.text != "" {
		b.WriteString("\n")
		b.WriteString(m.renderToast())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderFilters() string {
	parts := []string{m.search.View()}
	types := make([]string, 0, len(catalog.TypeFilters))
	for _, t := range catalog.TypeFilters {
		label := typeLabels[t]
		if t == m.query.Type {
			label = m.styles.badge.Render("[" + label + "]")
		}
		types = append(types, label)
	}
	parts = append(parts, "Type: "+strings.Join(types, " "))
	parts = append(parts, "View: "+string(m.view))
	if m.loading && len(m.entries) > 0 {
		parts = append(parts, m.spinner.View()+" refreshing")
	}
	return strings.Join(parts, "   ")
}

func (m Model) progressLine() string {
	shown := len(m.pager.Visible())
	if m.pager.HasMore() {
		return fmt.Sprintf("Showing %d of %d entries. Move past the last row to load more.", shown, m.pager.Total())
	}
	return fmt.Sprintf("Showing all %d entries.", shown)
}

// window returns the [start, end) slice of n rows that keeps the cursor in
// view when at most capacity rows fit.
func window(cursor, n, capacity int) (int, int) {
	if capacity <= 0 || n <= capacity {
		return 0, n
	}
	start := 0
	if cursor >= capacity {
		start = cursor - capacity + 1
	}
	return start, min(n, start+capacity)
}

func (m Model) capacity(rowHeight int) int {
	if m.height <= 0 {
		return 0
	}
	rows := (m.height - chrome) / rowHeight
	if m.detail {
		rows -= 10 / rowHeight
	}
	return max(1, rows)
}

func (m Model) renderTable() string {
	visible := m.pager.Visible()
	var b strings.Builder

	headers := make([]string, 0, len(tableColumns))
	for _, col := range tableColumns {
		headers = append(headers, textutil.Fit(col.title, col.width))
	}
	b.WriteString(m.styles.header.Render("  " + strings.Join(headers, " ")))
	b.WriteString("\n")

	start, end := window(m.cursor, len(visible), m.capacity(1))
	for i := start; i < end; i++ {
		entry := visible[i]
		cells := make([]string, 0, len(tableColumns))
		for _, col := range tableColumns {
			cells = append(cells, textutil.Fit(textutil.OrDash(col.value(entry)), col.width))
		}
		line := strings.Join(cells, " ")
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.row.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderGrid() string {
	visible := m.pager.Visible()
	cols := m.gridColumns()
	rowCount := (len(visible) + cols - 1) / cols
	start, end := window(m.cursor/cols, rowCount, m.capacity(5))

	rows := make([]string, 0, end-start)
	for r := start; r < end; r++ {
		cards := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(visible) {
				break
			}
			cards = append(cards, m.renderCard(visible[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(entry media.Entry, focused bool) string {
	inner := cardWidth - 4
	meta := entry.Type.Label()
	if entry.Year != "" {
		meta += " • " + entry.Year
	}
	body := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(textutil.Fit(entry.Title, inner)),
		m.styles.badge.Render(textutil.Fit(meta, inner)),
		m.styles.muted.Render(textutil.Fit(textutil.OrDash(entry.Director), inner)),
	}, "\n")
	if focused {
		return m.styles.cardFocus.Render(body)
	}
	return m.styles.card.Render(body)
}

func renderDetail(entry media.Entry) string {
	posterLine := entry.Poster
	if poster.IsPlaceholder(posterLine) || posterLine == "" {
		posterLine = "(no poster)"
	}
	fields := []struct{ label, value string }{
		{"Title", entry.Title},
		{"Type", entry.Type.Label()},
		{"Director", entry.Director},
		{"Year", entry.Year},
		{"Location", entry.Location},
		{"Duration", entry.Duration},
		{"Budget", entry.Budget},
		{"Poster", posterLine},
		{"Description", entry.Description},
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%-12s %s", f.label+":", textutil.OrDash(f.value)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderToast() string {
	switch m.toast.kind {
	case toastSuccess:
		return m.styles.success.Render("✓ " + m.toast.text)
	case toastError:
		return m.styles.failure.Render("✗ " + m.toast.text)
	default:
		return m.toast.text
	}
}

func (m Model) helpLine() string {
	if m.searching {
		return "type to filter • enter: done • esc: clear"
	}
	nav := "↑/↓: move"
	if m.view == ViewGrid {
		nav = "←/↑/↓/→: move"
	}
	return nav + " • /: search • t: type • v: view • enter: details • d: delete • r: refresh • q: quit"
}
