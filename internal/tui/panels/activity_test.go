package panels

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestActivityPanel_Empty(t *testing.T) {
	p := NewActivityPanel(40, 5)
	if !strings.Contains(p.View(), "Ожидание первых данных") {
		t.Errorf("empty View() = %q", p.View())
	}
	if !p.Following() {
		t.Error("new panel should follow")
	}
}

func TestActivityPanel_AppendFollows(t *testing.T) {
	p := NewActivityPanel(40, 3)
	for i := 0; i < 10; i++ {
		p = p.Append(fmt.Sprintf("line %d", i))
	}
	if p.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", p.Len())
	}
	view := p.View()
	if !strings.Contains(view, "line 9") {
		t.Errorf("following panel should show the newest line: %q", view)
	}
	if strings.Contains(view, "line 0") {
		t.Errorf("oldest line should be scrolled off: %q", view)
	}
}

func TestActivityPanel_Bounded(t *testing.T) {
	p := NewActivityPanel(40, 3)
	for i := 0; i < maxActivityLines+5; i++ {
		p = p.Append("x")
	}
	if p.Len() != maxActivityLines {
		t.Errorf("Len() = %d, want %d", p.Len(), maxActivityLines)
	}
}

func TestActivityPanel_ScrollPausesFollow(t *testing.T) {
	p := NewActivityPanel(40, 3)
	for i := 0; i < 10; i++ {
		p = p.Append(fmt.Sprintf("line %d", i))
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.Following() {
		t.Fatal("scrolling up should pause follow")
	}
	p = p.Append("line 10")
	if strings.Contains(p.View(), "line 10") {
		t.Error("paused panel should not jump to the newest line")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if !p.Following() {
		t.Error("returning to the bottom should resume follow")
	}
}

func TestActivityPanel_SetSize(t *testing.T) {
	p := NewActivityPanel(40, 2)
	for i := 0; i < 5; i++ {
		p = p.Append(fmt.Sprintf("line %d", i))
	}
	p = p.SetSize(40, 5)
	if !strings.Contains(p.View(), "line 0") || !strings.Contains(p.View(), "line 4") {
		t.Errorf("resized panel should show all lines: %q", p.View())
	}
}
