package botapi

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

// TransportError is a network failure, a non-2xx response, or a body that
// could not be decoded.
type TransportError struct {
	Op         string // "status", "start", "stop"
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("botapi: %s: http %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("botapi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendRejection is a well-formed response indicating the requested action
// did not take effect.
type BackendRejection struct {
	Action  botstate.Action
	Status  string
	Message string
}

func (e *BackendRejection) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("botapi: %s rejected (status %q): %s", e.Action, e.Status, e.Message)
	}
	return fmt.Sprintf("botapi: %s rejected (status %q)", e.Action, e.Status)
}

// UnknownStatus is a status value other than "running" or "stopped".
type UnknownStatus struct {
	Status  string
	Message string
}

func (e *UnknownStatus) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("botapi: unknown bot status %q: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("botapi: unknown bot status %q", e.Status)
}

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejection reports whether err is (or wraps) a *BackendRejection.
func IsRejection(err error) bool {
	var br *BackendRejection
	return errors.As(err, &br)
}

// IsUnknownStatus reports whether err is (or wraps) an *UnknownStatus.
func IsUnknownStatus(err error) bool {
	var us *UnknownStatus
	return errors.As(err, &us)
}
