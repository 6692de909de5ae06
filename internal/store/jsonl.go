package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is a
// JSON-serialized Record. The file is synced after every Append so the
// journal survives a killed process.
//
// File name: "<unix-timestamp>-<pid>.jsonl", which sorts chronologically.
// Every record also carries a random session id so journals copied between
// machines stay distinguishable.
type JSONL struct {
	file      *os.File
	path      string
	sessionID string
	mu        sync.Mutex
	idx       *sessionIndex
	now       func() time.Time
}

// NewJSONL creates the session journal in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	name := fmt.Sprintf("%d-%d.jsonl", now.Unix(), os.Getpid())
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	sessionID := uuid.NewString()
	return &JSONL{
		file:      f,
		path:      path,
		sessionID: sessionID,
		idx:       newSessionIndex(SessionSummary{SessionID: sessionID, Path: path, StartedAt: now}),
		now:       time.Now,
	}, nil
}

// SessionID returns the random id stamped on every record of this session.
func (j *JSONL) SessionID() string { return j.sessionID }

// Path returns the journal file path.
func (j *JSONL) Path() string { return j.path }

// Append stamps rec with the session id (and a timestamp when zero),
// writes it as one JSON line, and syncs. It is safe to call from multiple
// goroutines.
func (j *JSONL) Append(rec Record) error {
	rec.SessionID = j.sessionID
	if rec.Timestamp.IsZero() {
		rec.Timestamp = j.now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	j.idx.onAppend(rec)
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Recent returns the last n records of this session, oldest first. n <= 0
// returns every record still held in memory. The slice is a copy.
func (j *JSONL) Recent(n int) []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.recent(n)
}

// SessionSummary returns counters for the current session.
func (j *JSONL) SessionSummary() SessionSummary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.summary
}

// ReadSession reads every record from a journal file. Malformed lines are
// logged and skipped.
func ReadSession(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"file": path, "line": line}).
				Warn("store: skipping malformed journal line")
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("store: read %q: %w", path, err)
	}
	return records, nil
}

// Latest returns the path of the newest journal in dir. The error wraps
// fs.ErrNotExist when dir holds no journals.
func Latest(dir string) (string, error) {
	files, err := journalFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("store: no journals in %q: %w", dir, fs.ErrNotExist)
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// EnforceRetention removes the oldest journal files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir
// does not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := journalFiles(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

// journalFiles lists .jsonl names in dir in chronological order.
func journalFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}
