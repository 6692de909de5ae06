package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderStatus(t *testing.T) {
	check := time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC)
	tests := []struct {
		name    string
		props   StatusProps
		want    []string
		notWant []string
	}{
		{
			name:    "running",
			props:   StatusProps{Symbol: "●", Label: "работает", Since: 2 * time.Minute, LastCheck: check},
			want:    []string{"Статус: ● работает", "в этом состоянии 2m0s", "проверено 09:05:00"},
			notWant: nil,
		},
		{
			name:    "unknown before first poll",
			props:   StatusProps{Symbol: "○", Label: "неизвестно"},
			want:    []string{"Статус: ○ неизвестно"},
			notWant: []string{"в этом состоянии", "проверено"},
		},
		{
			name:  "no symbol",
			props: StatusProps{Label: "остановлен"},
			want:  []string{"Статус: остановлен"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderStatus(tt.props, lipgloss.NewStyle())
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderStatus() missing %q; got %q", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("RenderStatus() should not contain %q; got %q", nw, got)
				}
			}
		})
	}
}
