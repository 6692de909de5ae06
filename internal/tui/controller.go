package tui

import (
	"context"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

// Controller is the bot control surface the TUI drives. *control.Client
// satisfies it. Key handlers call it from tea.Cmds so a slow backend never
// blocks rendering.
type Controller interface {
	// RequestTransition asks for start or stop; ignored while another
	// request is in flight or when the matching button is disabled.
	RequestTransition(ctx context.Context, action botstate.Action) control.Outcome

	// Poll refreshes the run-state from the backend.
	Poll(ctx context.Context) bool

	// Snapshot returns the current state for the first frame.
	Snapshot() control.Snapshot
}
