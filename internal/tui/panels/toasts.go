package panels

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 5 * time.Second

// maxToasts bounds the stack; the oldest toast is dropped first.
const maxToasts = 5

// Toast is one transient notification.
type Toast struct {
	ID      int
	Message string
	Style   lipgloss.Style
	At      time.Time
}

// ToastStack holds the visible toasts, oldest first.
type ToastStack struct {
	toasts []Toast
	nextID int
}

// Push adds a toast and returns the stack with the id assigned to it.
func (s ToastStack) Push(msg string, style lipgloss.Style, at time.Time) (ToastStack, int) {
	s.nextID++
	t := Toast{ID: s.nextID, Message: msg, Style: style, At: at}
	toasts := append(append([]Toast(nil), s.toasts...), t)
	if len(toasts) > maxToasts {
		toasts = toasts[len(toasts)-maxToasts:]
	}
	s.toasts = toasts
	return s, t.ID
}

// Expire removes the toast with the given id. Unknown ids are ignored.
func (s ToastStack) Expire(id int) ToastStack {
	out := make([]Toast, 0, len(s.toasts))
	for _, t := range s.toasts {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.toasts = out
	return s
}

// Len returns the number of visible toasts.
func (s ToastStack) Len() int { return len(s.toasts) }

// Toasts returns a copy of the visible toasts.
func (s ToastStack) Toasts() []Toast {
	return append([]Toast(nil), s.toasts...)
}

// View renders the newest toasts that fit in height lines, newest on top.
func (s ToastStack) View(width, height int) string {
	if len(s.toasts) == 0 {
		return mutedText.Render("Нет уведомлений")
	}
	var lines []string
	for i := len(s.toasts) - 1; i >= 0 && len(lines) < height; i-- {
		t := s.toasts[i]
		msg := truncate(t.Message, width-11)
		lines = append(lines, mutedText.Render(t.At.Format("15:04:05"))+"  "+t.Style.Render(msg))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
