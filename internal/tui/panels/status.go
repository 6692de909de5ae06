package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusProps holds the status indicator data.
type StatusProps struct {
	Symbol    string
	Label     string        // "работает", "остановлен", ...
	Since     time.Duration // time since the last state change; 0 hides it
	LastCheck time.Time     // last snapshot; zero hides it
}

// RenderStatus renders the status panel body: a colored "Статус: <label>"
// line followed by timing details.
func RenderStatus(props StatusProps, labelStyle lipgloss.Style) string {
	label := props.Label
	if props.Symbol != "" {
		label = props.Symbol + " " + label
	}
	lines := []string{"Статус: " + labelStyle.Render(label)}

	var detail []string
	if props.Since > 0 {
		detail = append(detail, "в этом состоянии "+FormatElapsed(props.Since))
	}
	if !props.LastCheck.IsZero() {
		detail = append(detail, fmt.Sprintf("проверено %s", props.LastCheck.Format("15:04:05")))
	}
	if len(detail) > 0 {
		lines = append(lines, mutedText.Render(strings.Join(detail, " · ")))
	}
	return strings.Join(lines, "\n")
}

var mutedText = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
