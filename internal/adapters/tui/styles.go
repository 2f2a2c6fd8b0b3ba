package tui

import gloss "github.com/charmbracelet/lipgloss"

// Palette.
var (
	accent = gloss.Color("#89b4fa")
	muted  = gloss.Color("#585b70")
	text   = gloss.Color("#cdd6f4")
	gold   = gloss.Color("#f9e2af")
	alert  = gloss.Color("#f38ba8")
)

var (
	HeaderStyle = gloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	BadgeStyle  = gloss.NewStyle().Bold(true).Foreground(gloss.Color("#1e1e2e")).Background(gold).Padding(0, 1)

	PaneStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
	FocusedPaneStyle = PaneStyle.BorderForeground(accent)

	TitleStyle    = gloss.NewStyle().Bold(true).Foreground(text)
	MutedStyle    = gloss.NewStyle().Foreground(muted)
	CursorStyle   = gloss.NewStyle().Bold(true).Foreground(accent)
	SelectedStyle = gloss.NewStyle().Foreground(gold)
	StarStyle     = gloss.NewStyle().Foreground(gold)
	BestSeller    = gloss.NewStyle().Bold(true).Foreground(alert)
	EmptyStyle    = gloss.NewStyle().Italic(true).Foreground(muted)
	HelpStyle     = gloss.NewStyle().Foreground(muted).Padding(0, 1)
)
