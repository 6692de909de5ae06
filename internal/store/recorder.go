package store

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

// Recorder turns control events into journal records. Snapshots are
// journaled only when the run-state changes or a transition starts, so
// steady polling does not grow the journal.
type Recorder struct {
	w   Writer
	log *logrus.Entry

	mu       sync.Mutex
	last     botstate.RunState
	seen     bool
	inFlight bool
}

// NewRecorder creates a Recorder writing to w. Append failures are logged
// to log and otherwise ignored.
func NewRecorder(w Writer, log *logrus.Entry) *Recorder {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Recorder{w: w, log: log.WithField("component", "journal")}
}

// Hook consumes one control event.
func (r *Recorder) Hook(ev control.Event) {
	for _, rec := range r.records(ev) {
		if err := r.w.Append(rec); err != nil {
			r.log.WithError(err).Warn("journal append failed")
		}
	}
}

func (r *Recorder) records(ev control.Event) []Record {
	switch ev.Kind {
	case control.EventNotification:
		n := ev.Notification
		return []Record{{
			Kind:      KindNotification,
			Action:    n.Action.String(),
			Level:     n.Level.String(),
			Message:   n.Message,
			Timestamp: ev.Timestamp,
		}}
	case control.EventSnapshot:
		r.mu.Lock()
		defer r.mu.Unlock()
		snap := ev.Snapshot
		var out []Record
		if snap.InFlight && !r.inFlight {
			out = append(out, Record{
				Kind:      KindRequest,
				Action:    snap.Pending.String(),
				State:     snap.State.String(),
				Timestamp: ev.Timestamp,
			})
		}
		r.inFlight = snap.InFlight
		if !r.seen || snap.State != r.last {
			out = append(out, Record{
				Kind:      KindState,
				State:     snap.State.String(),
				Message:   snap.Label(),
				Timestamp: ev.Timestamp,
			})
			r.seen = true
			r.last = snap.State
		}
		return out
	}
	return nil
}
