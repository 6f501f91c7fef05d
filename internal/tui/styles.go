package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary    = lipgloss.Color("39")  // blue
	ColorSuccess    = lipgloss.Color("42")  // green
	ColorDanger     = lipgloss.Color("196") // red
	ColorForeground = lipgloss.Color("252")
	ColorMuted      = lipgloss.Color("244")
	ColorBorder     = lipgloss.Color("238")

	// Base styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Bold(true)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorForeground).
				Bold(true)

	RetiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	TableHighlightStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)
