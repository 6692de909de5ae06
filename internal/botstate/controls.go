package botstate

// Action is a user-initiated transition request.
type Action int

const (
	ActionStart Action = iota
	ActionStop
)

// Target returns the run-state a successful action produces.
func (a Action) Target() RunState {
	if a == ActionStop {
		return Stopped
	}
	return Running
}

// String returns "start" or "stop".
func (a Action) String() string {
	if a == ActionStop {
		return "stop"
	}
	return "start"
}

// Endpoint returns the backend path for the action.
func (a Action) Endpoint() string {
	if a == ActionStop {
		return "/stop_bot"
	}
	return "/start_bot"
}

// ParseAction parses "start" or "stop".
func ParseAction(s string) (Action, bool) {
	switch s {
	case "start":
		return ActionStart, true
	case "stop":
		return ActionStop, true
	default:
		return 0, false
	}
}

// Controls is the enabled/disabled state of the two control buttons.
type Controls struct {
	StartEnabled bool
	StopEnabled  bool
}

// Allows reports whether the button for action is enabled.
func (c Controls) Allows(a Action) bool {
	if a == ActionStop {
		return c.StopEnabled
	}
	return c.StartEnabled
}

// Project derives the control state. While a transition is in flight both
// buttons are disabled; otherwise exactly one is enabled. For Unknown and
// Error the last settled state decides; with no settled state start is the
// enabled one.
func Project(state, lastSettled RunState, inFlight bool) Controls {
	if inFlight {
		return Controls{}
	}
	effective := state
	if !effective.Settled() {
		effective = lastSettled
	}
	if effective == Running {
		return Controls{StartEnabled: false, StopEnabled: true}
	}
	return Controls{StartEnabled: true, StopEnabled: false}
}
