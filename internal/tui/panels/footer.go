package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Hints   string // rendered key help
	Pending string // e.g. "Запуск..." while a request is in flight
	Paused  bool   // activity log scrolled away from the newest line
}

// RenderFooter renders the footer: request progress on the left, key hints
// on the right.
func RenderFooter(props FooterProps, width int) string {
	left := props.Pending
	if props.Paused {
		if left != "" {
			left += "  "
		}
		left += "⏸ прокрутка"
	}
	right := props.Hints

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
