package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtle  lipgloss.Color = "#7f849c"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorFocus   lipgloss.Color = "#b4befe"
	colorError   lipgloss.Color = "#f38ba8"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorWarning lipgloss.Color = "#f9e2af"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	cursorHeader  = headerStyle.Underline(true).Foreground(colorFocus)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	focusStyle    = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(0, 1)

	// toneStyles map a row style's "tone" to its rendering.
	toneStyles = map[string]lipgloss.Style{
		"muted": lipgloss.NewStyle().Foreground(colorSubtle),
		"alert": lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
	}
)
