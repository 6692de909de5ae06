package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botapi"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/config"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/logging"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/notify"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/store"
)

// hookBuffer is the subscription buffer for each background event consumer.
const hookBuffer = 64

// env is the loaded configuration plus the process logger.
type env struct {
	cfg       *config.Config
	root      string // directory relative paths in cfg resolve against
	log       *logrus.Logger
	logCloser io.Closer
}

// loadEnv loads the config and builds the logger. console receives console
// log output; io.Discard keeps the terminal clean for the dashboard.
func loadEnv(configPath string, console io.Writer) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	root, err := configRoot(cfg)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       resolvePath(root, cfg.Log.File),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Console:    console,
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, root: root, log: logger, logCloser: closer}, nil
}

func (e *env) journalDir() string {
	return resolvePath(e.root, e.cfg.Journal.Dir)
}

func (e *env) Close() error {
	return e.logCloser.Close()
}

// configRoot returns the directory containing the config file, or the
// working directory when running on defaults.
func configRoot(cfg *config.Config) (string, error) {
	if cfg.Path != "" {
		return filepath.Dir(cfg.Path), nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// resolvePath makes a relative path absolute against root. Empty stays empty.
func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// session is one control client with its background consumers: the
// activity journal and the outbound notifier. Each consumer gets its own
// subscription so a slow webhook never delays the journal or the dashboard.
type session struct {
	*env
	client   *control.Client
	journal  *store.JSONL
	notifier *notify.Notifier

	hooks sync.WaitGroup
}

// newSession wires the control client to the backend and starts the hooks.
func newSession(e *env) (*session, error) {
	cfg := e.cfg
	api := botapi.New(cfg.Backend.URL, botapi.Options{Timeout: cfg.Backend.RequestTimeout()})
	client := control.New(api, control.Options{
		PollInterval: cfg.Backend.PollInterval(),
		ConfirmDelay: cfg.Backend.ConfirmDelay(),
		Logger:       logrus.NewEntry(e.log),
	})
	s := &session{env: e, client: client}

	dir := e.journalDir()
	journal, err := store.NewJSONL(dir)
	if err != nil {
		return nil, err
	}
	s.journal = journal
	if err := store.EnforceRetention(dir, cfg.Journal.Retention); err != nil {
		e.log.WithError(err).Warn("journal retention failed")
	}
	s.attach(store.NewRecorder(journal, logrus.NewEntry(e.log)).Hook)

	if cfg.Notifications.URL != "" {
		s.notifier = notify.New(cfg.Notifications.URL, cfg.Project.Name, notify.Options{
			OnSuccess: cfg.Notifications.OnSuccess,
			OnError:   cfg.Notifications.OnError,
			Logger:    logrus.NewEntry(e.log),
		})
		s.attach(s.notifier.Hook)
	}

	e.log.WithFields(logrus.Fields{
		"backend": api.BaseURL(),
		"session": journal.SessionID(),
		"journal": journal.Path(),
	}).Debug("session opened")
	return s, nil
}

// attach runs hook for every client event until the client is closed.
func (s *session) attach(hook func(control.Event)) {
	events := s.client.Subscribe(hookBuffer)
	s.hooks.Add(1)
	go func() {
		defer s.hooks.Done()
		for ev := range events {
			hook(ev)
		}
	}()
}

// run polls the backend until ctx is done. The returned channel is closed
// once polling has stopped.
func (s *session) run(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.client.Run(ctx)
	}()
	return done
}

// Close stops event delivery, drains the hooks and releases the journal and
// log file. Callers cancel the client context first.
func (s *session) Close() error {
	s.client.Close()
	s.hooks.Wait()
	if s.notifier != nil {
		s.notifier.Wait()
	}
	err := s.journal.Close()
	if cerr := s.env.Close(); err == nil {
		err = cerr
	}
	return err
}
