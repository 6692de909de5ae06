package panels

import (
	"github.com/charmbracelet/lipgloss"
)

// ButtonProps describes one control button.
type ButtonProps struct {
	Label     string // "Запустить бота"
	BusyLabel string // "Запуск..." shown while this button's request is in flight
	Key       string // key hint, e.g. "s"
	Enabled   bool
	Busy      bool
	Spinner   string // current spinner frame, used when Busy
}

// ButtonStyler returns the style for an enabled or disabled button.
type ButtonStyler func(enabled bool) lipgloss.Style

// RenderButton renders a single bordered button. A busy button shows the
// spinner and its busy label; it is always drawn disabled.
func RenderButton(b ButtonProps, style ButtonStyler) string {
	text := b.Label
	if b.Busy {
		text = b.Spinner + " " + b.BusyLabel
	} else if b.Key != "" {
		text = "[" + b.Key + "] " + text
	}
	return style(b.Enabled && !b.Busy).Render(text)
}

// RenderControls renders the start and stop buttons side by side.
func RenderControls(start, stop ButtonProps, style ButtonStyler) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton(start, style),
		" ",
		RenderButton(stop, style),
	)
}
