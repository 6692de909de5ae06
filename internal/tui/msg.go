package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

// eventMsg wraps a control event.
type eventMsg control.Event

// eventsClosedMsg signals the event channel closed.
type eventsClosedMsg struct{}

// tickMsg is sent every second for the clock.
type tickMsg time.Time

// outcomeMsg reports how a key-triggered transition ended.
type outcomeMsg struct {
	Action  botstate.Action
	Outcome control.Outcome
}

// toastExpiredMsg removes a toast once its display time is over.
type toastExpiredMsg struct{ ID int }
