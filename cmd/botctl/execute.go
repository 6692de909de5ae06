package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/logging"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/server"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/store"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/supervisor"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/tui"
)

// eventBuffer is the dashboard and watch subscription buffer.
const eventBuffer = 256

// executeDash runs the dashboard until the user quits or a signal arrives.
func executeDash(configPath string) error {
	e, err := loadEnv(configPath, io.Discard)
	if err != nil {
		return err
	}
	s, err := newSession(e)
	if err != nil {
		_ = e.Close()
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()

	events := s.client.Subscribe(eventBuffer)
	model := tui.New(events, s.client, tui.Options{
		ProjectName: e.cfg.Project.Name,
		BackendURL:  e.cfg.Backend.URL,
		AccentColor: e.cfg.TUI.AccentColor,
		Context:     ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	polling := s.run(ctx)
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	_, err = program.Run()
	cancel()
	<-polling
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// executeWatch prints control events to out until a signal arrives.
func executeWatch(configPath string, out io.Writer) error {
	e, err := loadEnv(configPath, nil)
	if err != nil {
		return err
	}
	s, err := newSession(e)
	if err != nil {
		_ = e.Close()
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(out, "Watching %s (every %s, Ctrl+C to exit)\n", e.cfg.Backend.URL, e.cfg.Backend.PollInterval())
	watch(ctx, s.client, out)
	return nil
}

// watch polls via c and prints every event until ctx is done.
func watch(ctx context.Context, c *control.Client, out io.Writer) {
	events := c.Subscribe(eventBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	var last *control.Snapshot
	for {
		select {
		case <-ctx.Done():
			<-done
			return
		case ev, ok := <-events:
			if !ok {
				<-done
				return
			}
			if line, show := formatEvent(ev, last); show {
				fmt.Fprintln(out, line)
			}
			if ev.Kind == control.EventSnapshot {
				snap := ev.Snapshot
				last = &snap
			}
		}
	}
}

// executeStatus polls once and prints the result. An unreachable backend is
// reported and exits non-zero.
func executeStatus(configPath string, out io.Writer) error {
	e, err := loadEnv(configPath, nil)
	if err != nil {
		return err
	}
	s, err := newSession(e)
	if err != nil {
		_ = e.Close()
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return printStatus(ctx, s.client, e.cfg.Backend.URL, out)
}

func printStatus(ctx context.Context, c *control.Client, backendURL string, out io.Writer) error {
	c.Poll(ctx)
	snap := c.Snapshot()
	fmt.Fprint(out, formatStatus(snap, backendURL))
	if snap.State == botstate.Error {
		return fmt.Errorf("bot status unavailable from %s", backendURL)
	}
	return nil
}

// executeTransition performs one start or stop and reports the result.
func executeTransition(configPath string, action botstate.Action, out io.Writer) error {
	e, err := loadEnv(configPath, nil)
	if err != nil {
		return err
	}
	s, err := newSession(e)
	if err != nil {
		_ = e.Close()
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return transition(ctx, s.client, action, out)
}

// transition polls first so the control projection reflects the real state,
// then requests action. The confirmatory poll is abandoned when ctx is
// cancelled by the caller.
func transition(ctx context.Context, c *control.Client, action botstate.Action, out io.Writer) error {
	events := c.Subscribe(eventBuffer)
	c.Poll(ctx)

	outcome := c.RequestTransition(ctx, action)
	snap := c.Snapshot()
	if outcome == control.OutcomeIgnored {
		if snap.State == botstate.Error {
			return fmt.Errorf("cannot %s: bot status unavailable", action)
		}
		fmt.Fprintln(out, alreadyMessage(action))
		return nil
	}

	note := lastNotification(events)
	fmt.Fprintln(out, note.Message)
	if outcome != control.OutcomeSucceeded {
		return fmt.Errorf("%s failed: %s", action, outcome)
	}
	return nil
}

// lastNotification drains the buffered events and returns the newest
// notification.
func lastNotification(events <-chan control.Event) control.Notification {
	var note control.Notification
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return note
			}
			if ev.Kind == control.EventNotification {
				note = ev.Notification
			}
		default:
			return note
		}
	}
}

func alreadyMessage(action botstate.Action) string {
	if action == botstate.ActionStop {
		return supervisor.MsgAlreadyStopped
	}
	return supervisor.MsgAlreadyRunning
}

// executeServe runs the backend: the bot supervisor behind the HTTP API.
// On shutdown the bot process is stopped with the server.
func executeServe(configPath, listen string) error {
	e, err := loadEnv(configPath, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := e.cfg
	if listen == "" {
		listen = cfg.Server.Listen
	}
	log := logging.Component(e.log, "serve")

	// Bot output goes through the logger so it lands in the log file too.
	botOut := e.log.WithField("component", "bot").WriterLevel(logrus.InfoLevel)
	defer botOut.Close()

	sup := supervisor.New(supervisor.Options{
		Command:     cfg.Server.Command,
		Dir:         resolvePath(e.root, cfg.Server.Dir),
		StopTimeout: cfg.Server.StopTimeout(),
		StartSettle: cfg.Server.StartSettle(),
		Output:      botOut,
		Logger:      logrus.NewEntry(e.log),
	})

	ctx, cancel := signalContext()
	defer cancel()

	log.WithFields(logrus.Fields{
		"listen":  listen,
		"command": strings.Join(cfg.Server.Command, " "),
	}).Info("starting backend")
	serveErr := server.New(sup, logrus.NewEntry(e.log)).Run(ctx, listen)

	if err := sup.Shutdown(context.Background()); err != nil {
		log.WithError(err).Error("bot shutdown failed")
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// executeLog prints the newest journal in the configured journal dir.
func executeLog(configPath string, tail int, out io.Writer) error {
	e, err := loadEnv(configPath, nil)
	if err != nil {
		return err
	}
	defer e.Close()
	return printJournal(e.journalDir(), tail, out)
}

func printJournal(dir string, tail int, out io.Writer) error {
	path, err := store.Latest(dir)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No journal found. Run 'botctl' or 'botctl watch' first.")
		return nil
	}
	if err != nil {
		return err
	}
	records, err := store.ReadSession(path)
	if err != nil {
		return err
	}
	if tail > 0 && len(records) > tail {
		records = records[len(records)-tail:]
	}
	fmt.Fprint(out, formatJournal(path, records))
	return nil
}
