// Package store persists the bot control activity journal: one append-only
// JSONL file per botctl session recording state changes, transition
// requests and their notifications. One store instance is created per
// botctl invocation in cmd/botctl/wiring.go.
package store

import (
	"time"
)

// Kind identifies what a journal record describes.
type Kind string

const (
	KindState        Kind = "state"        // observed run-state changed
	KindRequest      Kind = "request"      // start/stop was requested
	KindNotification Kind = "notification" // transition result shown to the user
)

// Record is one journal line.
type Record struct {
	SessionID string    `json:"session_id"`
	Kind      Kind      `json:"kind"`
	State     string    `json:"state,omitempty"`
	Action    string    `json:"action,omitempty"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Writer persists journal records to durable storage.
type Writer interface {
	Append(rec Record) error
	Close() error
}

// Reader retrieves the current session's records.
type Reader interface {
	Recent(n int) []Record
	SessionSummary() SessionSummary
}

// Store combines Writer and Reader into a single session-scoped handle.
type Store interface {
	Writer
	Reader
}

// SessionSummary summarises the current session.
type SessionSummary struct {
	SessionID  string
	Path       string
	StartedAt  time.Time
	Records    int
	Requests   int
	Failures   int
	LastState  string
	LastChange time.Time
}
