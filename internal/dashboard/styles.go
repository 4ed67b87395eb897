package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#E50914")
	colorMuted   = lipgloss.Color("#8A8A8A")
	colorBorder  = lipgloss.Color("#3A3A3A")
	colorSuccess = lipgloss.Color("#46D369")
	colorError   = lipgloss.Color("#FF5F56")
	colorAccent  = lipgloss.Color("#F5C518")
)

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	header    lipgloss.Style
	row       lipgloss.Style
	selected  lipgloss.Style
	muted     lipgloss.Style
	badge     lipgloss.Style
	card      lipgloss.Style
	cardFocus lipgloss.Style
	detail    lipgloss.Style
	confirm   lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	help      lipgloss.Style
}

func defaultStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		subtitle:  lipgloss.NewStyle().Foreground(colorMuted),
		header:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		row:       lipgloss.NewStyle(),
		selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		muted:     lipgloss.NewStyle().Foreground(colorMuted),
		badge:     lipgloss.NewStyle().Foreground(colorAccent),
		card:      card,
		cardFocus: card.BorderForeground(colorPrimary),
		detail: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorBorder).
			PaddingTop(1),
		confirm: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorError).
			Padding(0, 1),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		failure: lipgloss.NewStyle().Foreground(colorError),
		help:    lipgloss.NewStyle().Foreground(colorMuted),
	}
}
