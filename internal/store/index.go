package store

// maxTail bounds the records kept in memory for Recent.
const maxTail = 500

// sessionIndex maintains the in-memory view of the session: a bounded tail
// of records for Recent and running counters for SessionSummary. It is
// updated by onAppend as each record is written.
type sessionIndex struct {
	tail    []Record
	summary SessionSummary
}

func newSessionIndex(s SessionSummary) *sessionIndex {
	return &sessionIndex{summary: s}
}

func (idx *sessionIndex) onAppend(rec Record) {
	idx.tail = append(idx.tail, rec)
	if len(idx.tail) > maxTail {
		idx.tail = append(idx.tail[:0:0], idx.tail[len(idx.tail)-maxTail:]...)
	}

	s := &idx.summary
	s.Records++
	switch rec.Kind {
	case KindState:
		s.LastState = rec.State
		s.LastChange = rec.Timestamp
	case KindRequest:
		s.Requests++
	case KindNotification:
		if rec.Level == "error" {
			s.Failures++
		}
	}
}

// recent returns a copy of the last n records (all when n <= 0).
func (idx *sessionIndex) recent(n int) []Record {
	start := 0
	if n > 0 && n < len(idx.tail) {
		start = len(idx.tail) - n
	}
	out := make([]Record, len(idx.tail)-start)
	copy(out, idx.tail[start:])
	return out
}
