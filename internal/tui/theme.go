package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

// Theme holds accent-color-derived styles for the dashboard.
type Theme struct {
	accentStyle   lipgloss.Style // header bar
	buttonStyle   lipgloss.Style // enabled button
	borderFocused lipgloss.Style // controls panel
	borderPlain   lipgloss.Style // other panels
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		buttonStyle: lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderPlain: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style { return t.accentStyle }

// ButtonStyle returns the enabled or disabled button style.
func (t Theme) ButtonStyle(enabled bool) lipgloss.Style {
	if enabled {
		return t.buttonStyle
	}
	return disabledButtonStyle
}

// PanelBorderStyle returns the border style for a panel; the accented
// border marks the panel the keys act on.
func (t Theme) PanelBorderStyle(accented bool) lipgloss.Style {
	if accented {
		return t.borderFocused
	}
	return t.borderPlain
}

// SeverityStyle colors the status label: running green, stopped red, error
// yellow, unknown gray.
func (t Theme) SeverityStyle(s botstate.Severity) lipgloss.Style {
	switch s {
	case botstate.SeveritySuccess:
		return successStyle
	case botstate.SeverityDanger:
		return dangerStyle
	case botstate.SeverityWarning:
		return warningStyle
	default:
		return mutedStyle
	}
}

// LevelStyle colors a notification.
func (t Theme) LevelStyle(l control.Level) lipgloss.Style {
	switch l {
	case control.LevelSuccess:
		return successStyle
	case control.LevelError:
		return dangerStyle
	default:
		return infoStyle
	}
}

// StateSymbol returns the status glyph for a run-state.
func StateSymbol(s botstate.RunState) string {
	switch s {
	case botstate.Running:
		return "●"
	case botstate.Stopped:
		return "■"
	case botstate.Error:
		return "✗"
	default:
		return "○"
	}
}
