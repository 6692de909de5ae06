package store

import (
	"errors"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

type memWriter struct {
	records []Record
	err     error
}

func (m *memWriter) Append(r Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memWriter) Close() error { return nil }

func snap(state botstate.RunState, inFlight bool, pending botstate.Action) control.Event {
	return control.Event{
		Kind:      control.EventSnapshot,
		Timestamp: time.Unix(1700000000, 0),
		Snapshot:  control.Snapshot{State: state, InFlight: inFlight, Pending: pending},
	}
}

func TestRecorder_StateChangesOnly(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w, nil)

	r.Hook(snap(botstate.Stopped, false, 0))
	r.Hook(snap(botstate.Stopped, false, 0)) // repeated poll
	r.Hook(snap(botstate.Stopped, false, 0))
	r.Hook(snap(botstate.Error, false, 0))
	r.Hook(snap(botstate.Running, false, 0))

	if len(w.records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(w.records), w.records)
	}
	want := []string{"stopped", "error", "running"}
	for i, rec := range w.records {
		if rec.Kind != KindState || rec.State != want[i] {
			t.Errorf("record %d = %+v, want state %s", i, rec, want[i])
		}
	}
	if w.records[0].Message != "остановлен" {
		t.Errorf("label = %q", w.records[0].Message)
	}
}

func TestRecorder_Transition(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w, nil)

	r.Hook(snap(botstate.Stopped, false, 0))
	r.Hook(snap(botstate.Stopped, true, botstate.ActionStart))
	r.Hook(control.Event{
		Kind:         control.EventNotification,
		Notification: control.Notification{Level: control.LevelSuccess, Action: botstate.ActionStart, Message: "Бот успешно запущен"},
	})
	r.Hook(snap(botstate.Running, false, botstate.ActionStart))

	kinds := make([]Kind, len(w.records))
	for i, rec := range w.records {
		kinds[i] = rec.Kind
	}
	want := []Kind{KindState, KindRequest, KindNotification, KindState}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
	if w.records[1].Action != "start" {
		t.Errorf("request action = %q", w.records[1].Action)
	}
	if n := w.records[2]; n.Level != "success" || n.Message != "Бот успешно запущен" {
		t.Errorf("notification = %+v", n)
	}
}

func TestRecorder_AppendErrorIgnored(t *testing.T) {
	w := &memWriter{err: errors.New("disk full")}
	r := NewRecorder(w, nil)
	r.Hook(snap(botstate.Running, false, 0)) // must not panic
	if len(w.records) != 0 {
		t.Fatal("unexpected records")
	}
}
