package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

// Styles for stderr status output. lipgloss drops the colors when the
// output is not a color terminal.
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
