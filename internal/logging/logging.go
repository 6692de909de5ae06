// Package logging builds the process logger: logrus with a text formatter,
// writing to the console and optionally to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimestampFormat is the log timestamp layout (yy-mm-dd HH:MM:ss).
const TimestampFormat = "06-01-02 15:04:05"

// Options configures the logger.
type Options struct {
	Level      string // debug, info, warn, error; invalid values fall back to info
	File       string // rotating log file; empty = console only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Console receives console output. nil means os.Stderr; io.Discard
	// silences the console (TUI mode) while the file sink keeps working.
	Console io.Writer
}

// New creates a logger from opts. The returned closer releases the log file
// and is never nil.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	})

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	if opts.File == "" {
		logger.SetOutput(console)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	if console == io.Discard {
		logger.SetOutput(file)
	} else {
		logger.SetOutput(io.MultiWriter(console, file))
	}
	return logger, file, nil
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
