package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxActivityLines bounds the activity history kept in memory.
const maxActivityLines = 1000

// ActivityPanel is the scrollable session history: state changes,
// requests and their results. It follows the newest line until the user
// scrolls up.
type ActivityPanel struct {
	vp     viewport.Model
	lines  []string
	follow bool
}

// NewActivityPanel creates an ActivityPanel with the given content size.
func NewActivityPanel(w, h int) ActivityPanel {
	return ActivityPanel{vp: viewport.New(w, h), follow: true}
}

// Append adds a pre-rendered line.
func (p ActivityPanel) Append(line string) ActivityPanel {
	lines := append(append([]string(nil), p.lines...), line)
	if len(lines) > maxActivityLines {
		lines = lines[len(lines)-maxActivityLines:]
	}
	p.lines = lines
	p.vp.SetContent(strings.Join(p.lines, "\n"))
	if p.follow {
		p.vp.GotoBottom()
	}
	return p
}

// Len returns the number of lines held.
func (p ActivityPanel) Len() int { return len(p.lines) }

// SetSize resizes the panel content area.
func (p ActivityPanel) SetSize(w, h int) ActivityPanel {
	p.vp.Width = w
	p.vp.Height = h
	if p.follow {
		p.vp.GotoBottom()
	}
	return p
}

// Update forwards scroll keys and mouse wheel to the viewport. Scrolling
// away from the bottom pauses follow; returning to it resumes.
func (p ActivityPanel) Update(msg tea.Msg) (ActivityPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		p.follow = p.vp.AtBottom()
	}
	return p, cmd
}

// Following reports whether the panel tracks the newest line.
func (p ActivityPanel) Following() bool { return p.follow }

// View renders the visible lines.
func (p ActivityPanel) View() string {
	if len(p.lines) == 0 {
		return mutedText.Render("Ожидание первых данных...")
	}
	return p.vp.View()
}
