package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			logger, closer, err := New(Options{Level: tt.in, Console: io.Discard})
			if err != nil {
				t.Fatal(err)
			}
			defer closer.Close()
			if logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	Component(logger, "control").Info("bot state changed")

	out := buf.String()
	if !strings.Contains(out, "bot state changed") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "component=control") {
		t.Errorf("output missing component field: %q", out)
	}
}

func TestNew_FileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "botctl.log")

	var console bytes.Buffer
	logger, closer, err := New(Options{Level: "info", File: path, MaxSizeMB: 1, Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("poll failed")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "poll failed") {
		t.Errorf("file missing message: %q", data)
	}
	if !strings.Contains(console.String(), "poll failed") {
		t.Errorf("console missing message: %q", console.String())
	}
}

func TestNew_DiscardConsoleKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botctl.log")
	logger, closer, err := New(Options{File: path, Console: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("tui mode")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tui mode") {
		t.Errorf("file missing message: %q", data)
	}
}
