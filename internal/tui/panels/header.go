// Package panels provides the panel components for the botctl dashboard.
// Panels take plain props and styles so they never import the parent tui
// package.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
type HeaderProps struct {
	ProjectName string
	BackendURL  string
	Elapsed     time.Duration
	Clock       time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "botctl"
	if props.ProjectName != "" {
		name = props.ProjectName
	}

	parts := []string{"🤖 " + name}
	if props.BackendURL != "" {
		parts = append(parts, "backend: "+props.BackendURL)
	}
	if props.Elapsed > 0 {
		parts = append(parts, "session: "+FormatElapsed(props.Elapsed))
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04:05"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}
