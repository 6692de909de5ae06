// Package tui provides a bubbletea + lipgloss terminal dashboard for the
// trading bot: status indicator, start/stop buttons, toasts and an activity
// log.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

// Color palette.
var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorDim    = lipgloss.Color("#4A4A4A")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorBlue   = lipgloss.Color("#5B9BD5")
)

var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)
