// Package botstate defines the observable run-state of the controlled trading
// bot and the start/stop control projection derived from it.
package botstate

// RunState is the bot run-state as observed through the backend API.
type RunState int

const (
	Unknown RunState = iota // Not yet determined (page/session start)
	Running                 // Bot process is running
	Stopped                 // Bot process is stopped
	Error                   // Backend unreachable or reported an unrecognized status
)

// ParseStatus maps a backend status value to a RunState. Anything other than
// "running" or "stopped" is an error state.
func ParseStatus(status string) RunState {
	switch status {
	case "running":
		return Running
	case "stopped":
		return Stopped
	default:
		return Error
	}
}

// String returns the wire-level name of the state.
func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the user-facing status text.
func (s RunState) Label() string {
	switch s {
	case Running:
		return "работает"
	case Stopped:
		return "остановлен"
	case Error:
		return "ошибка"
	default:
		return "неизвестно"
	}
}

// Settled reports whether the state is one the bot can actually be in
// (running or stopped), as opposed to an observation failure.
func (s RunState) Settled() bool {
	return s == Running || s == Stopped
}

// Severity classifies a state for coloring.
type Severity int

const (
	SeverityMuted Severity = iota
	SeveritySuccess
	SeverityDanger
	SeverityWarning
)

// Severity returns the display severity of the state: running is success,
// stopped is danger, error is warning.
func (s RunState) Severity() Severity {
	switch s {
	case Running:
		return SeveritySuccess
	case Stopped:
		return SeverityDanger
	case Error:
		return SeverityWarning
	default:
		return SeverityMuted
	}
}

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityDanger:
		return "danger"
	case SeverityWarning:
		return "warning"
	default:
		return "muted"
	}
}
