package main

import (
	"fmt"
	"strings"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/store"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/tui"
)

const timeLayout = "15:04:05"

// formatEvent renders ev as one watch line. Snapshots are shown only when
// the state or the in-flight flag differ from prev; repeated polls of an
// unchanged bot print nothing.
func formatEvent(ev control.Event, prev *control.Snapshot) (string, bool) {
	ts := ev.Timestamp.Format(timeLayout)
	switch ev.Kind {
	case control.EventNotification:
		n := ev.Notification
		return fmt.Sprintf("[%s] %-7s %s", ts, n.Level, n.Message), true
	case control.EventSnapshot:
		snap := ev.Snapshot
		if prev != nil && prev.State == snap.State && prev.InFlight == snap.InFlight {
			return "", false
		}
		if snap.InFlight {
			return fmt.Sprintf("[%s] %-7s %s requested", ts, "request", snap.Pending), true
		}
		return fmt.Sprintf("[%s] %-7s %s %s", ts, "state", tui.StateSymbol(snap.State), snap.Label()), true
	}
	return "", false
}

// formatStatus renders the one-shot status report.
func formatStatus(snap control.Snapshot, backendURL string) string {
	var b strings.Builder
	b.WriteString("Bot Status\n")
	b.WriteString("──────────\n")
	fmt.Fprintf(&b, "  %-12s %s\n", "Backend:", backendURL)
	fmt.Fprintf(&b, "  %-12s %s %s (%s)\n", "Status:", tui.StateSymbol(snap.State), snap.Label(), snap.State)
	if !snap.At.IsZero() {
		fmt.Fprintf(&b, "  %-12s %s\n", "Checked:", snap.At.Format(timeLayout))
	}
	return b.String()
}

// formatJournal renders a session journal read from path.
func formatJournal(path string, records []store.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Journal %s\n", path)
	if len(records) > 0 && records[0].SessionID != "" {
		fmt.Fprintf(&b, "Session %s\n", records[0].SessionID)
	}
	b.WriteString("───────\n")
	if len(records) == 0 {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	for _, r := range records {
		fmt.Fprintf(&b, "  %s  %-12s %s\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.Kind, journalDetail(r))
	}
	return b.String()
}

func journalDetail(r store.Record) string {
	switch r.Kind {
	case store.KindState:
		return r.State + "  " + r.Message
	case store.KindRequest:
		return r.Action
	case store.KindNotification:
		return "[" + r.Level + "] " + r.Message
	}
	return r.Message
}
