package control

import (
	"time"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

// EventKind identifies the type of a control event.
type EventKind int

const (
	EventSnapshot     EventKind = iota // Run-state or control state changed
	EventNotification                  // User-facing toast message
)

// Level is the notification severity.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns "info", "success" or "error".
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a short user-visible message produced by a transition.
type Notification struct {
	Level   Level
	Action  botstate.Action
	Message string
}

// Snapshot is the observable state of the client at one instant. It is the
// only input the renderers need.
type Snapshot struct {
	State       botstate.RunState
	LastSettled botstate.RunState
	InFlight    bool
	Pending     botstate.Action // valid only when InFlight
	Controls    botstate.Controls
	At          time.Time
}

// Label returns the status text for the snapshot's state.
func (s Snapshot) Label() string { return s.State.Label() }

// Severity returns the display severity for the snapshot's state.
func (s Snapshot) Severity() botstate.Severity { return s.State.Severity() }

// Event is delivered to subscribers on every state change and notification.
type Event struct {
	Kind         EventKind
	Timestamp    time.Time
	Snapshot     Snapshot
	Notification Notification
}

// Outcome is the terminal result of RequestTransition.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // Another transition in flight or button disabled; no request issued
	OutcomeSucceeded                // Backend confirmed the requested state
	OutcomeRejected                 // Backend answered with a different state
	OutcomeFailed                   // Transport failure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "ignored"
	}
}

func successMessage(a botstate.Action) string {
	if a == botstate.ActionStop {
		return "Бот успешно остановлен"
	}
	return "Бот успешно запущен"
}

func rejectedMessage(a botstate.Action) string {
	if a == botstate.ActionStop {
		return "Не удалось остановить бота"
	}
	return "Не удалось запустить бота"
}

func transportMessage(a botstate.Action) string {
	if a == botstate.ActionStop {
		return "Ошибка при остановке бота"
	}
	return "Ошибка при запуске бота"
}
