// Package supervisor runs the trading bot as a child process and exposes
// start, stop and status for the HTTP backend.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

const (
	DefaultStopTimeout = 5 * time.Second
	DefaultStartSettle = 300 * time.Millisecond
)

// Messages returned alongside a status, as shown by the dashboard.
const (
	MsgAlreadyRunning = "Бот уже запущен"
	MsgAlreadyStopped = "Бот уже остановлен"
)

// ErrNoCommand is returned by Start when no bot command is configured.
var ErrNoCommand = errors.New("supervisor: no bot command configured")

// Options configures a Supervisor.
type Options struct {
	Command     []string // argv of the bot process
	Dir         string
	Env         []string // appended to the inherited environment
	StopTimeout time.Duration
	StartSettle time.Duration
	Output      io.Writer // child stdout and stderr; nil discards
	Logger      *logrus.Entry
}

// Result is the outcome of a start or stop.
type Result struct {
	Status  botstate.RunState
	Message string
	PID     int
}

// Supervisor owns at most one bot process at a time.
type Supervisor struct {
	opts Options
	log  *logrus.Entry

	op   sync.Mutex // serializes Start and Stop
	mu   sync.Mutex // guards proc
	proc *process
}

// process is one spawned child. done is closed once Wait returns.
type process struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
	waitErr  error
}

func (p *process) alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// New creates a Supervisor. Zero durations select the defaults.
func New(opts Options) *Supervisor {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if opts.StartSettle <= 0 {
		opts.StartSettle = DefaultStartSettle
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Supervisor{opts: opts, log: log.WithField("component", "supervisor")}
}

// Status reports Running while the child is alive and Stopped otherwise.
// It never waits for a Start or Stop in progress.
func (s *Supervisor) Status() botstate.RunState {
	if s.current() != nil {
		return botstate.Running
	}
	return botstate.Stopped
}

// PID returns the child's pid, or 0 when no child is running.
func (s *Supervisor) PID() int {
	if p := s.current(); p != nil {
		return p.cmd.Process.Pid
	}
	return 0
}

// current returns the live child, or nil.
func (s *Supervisor) current() *process {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != nil && s.proc.alive() {
		return s.proc
	}
	return nil
}

// Start spawns the bot unless it is already running. A child that exits
// within the settle window is reported as an Error result carrying its
// exit code. The returned error is reserved for spawn failures.
func (s *Supervisor) Start(ctx context.Context) (Result, error) {
	s.op.Lock()
	defer s.op.Unlock()

	if p := s.current(); p != nil {
		return Result{Status: botstate.Running, Message: MsgAlreadyRunning, PID: p.cmd.Process.Pid}, nil
	}
	if len(s.opts.Command) == 0 {
		return Result{Status: botstate.Error}, ErrNoCommand
	}

	cmd := exec.Command(s.opts.Command[0], s.opts.Command[1:]...)
	cmd.Dir = s.opts.Dir
	if len(s.opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), s.opts.Env...)
	}
	if s.opts.Output != nil {
		cmd.Stdout = s.opts.Output
		cmd.Stderr = s.opts.Output
	}
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return Result{Status: botstate.Error}, fmt.Errorf("supervisor: start %s: %w", s.opts.Command[0], err)
	}
	p := &process{cmd: cmd, done: make(chan struct{})}
	s.mu.Lock()
	s.proc = p
	s.mu.Unlock()
	pid := cmd.Process.Pid
	log := s.log.WithField("pid", pid)
	log.Info("bot process started")

	go func() {
		err := cmd.Wait()
		p.waitErr = err
		if err != nil {
			var ee *exec.ExitError
			if errors.As(err, &ee) {
				p.exitCode = ee.ExitCode()
			} else {
				p.exitCode = 1
			}
		}
		close(p.done)
		log.WithField("exit_code", p.exitCode).Info("bot process exited")
	}()

	settle := time.NewTimer(s.opts.StartSettle)
	defer settle.Stop()
	select {
	case <-p.done:
		msg := fmt.Sprintf("Не удалось запустить бота. Код возврата: %d", p.exitCode)
		log.Error(msg)
		return Result{Status: botstate.Error, Message: msg, PID: pid}, nil
	case <-settle.C:
	case <-ctx.Done():
		// The child keeps running; the caller gave up waiting for the check.
	}
	return Result{Status: botstate.Running, PID: pid}, nil
}

// Stop terminates the bot's process group: SIGTERM first, SIGKILL once the
// stop timeout passes. It waits for the child to be reaped. Once SIGTERM is
// sent the bot always gets the full stop timeout, even if ctx is cancelled.
func (s *Supervisor) Stop(_ context.Context) (Result, error) {
	s.op.Lock()
	defer s.op.Unlock()

	p := s.current()
	if p == nil {
		return Result{Status: botstate.Stopped, Message: MsgAlreadyStopped}, nil
	}
	pid := p.cmd.Process.Pid
	log := s.log.WithField("pid", pid)

	if err := terminate(p.cmd); err != nil {
		log.WithError(err).Warn("SIGTERM failed")
	}

	timer := time.NewTimer(s.opts.StopTimeout)
	defer timer.Stop()
	select {
	case <-p.done:
		log.Info("bot process stopped")
		return Result{Status: botstate.Stopped, PID: pid}, nil
	case <-timer.C:
	}

	if err := kill(p.cmd); err != nil {
		return Result{Status: botstate.Error, PID: pid}, fmt.Errorf("supervisor: kill pid %d: %w", pid, err)
	}
	<-p.done
	log.WithField("timeout", s.opts.StopTimeout).Warn("bot process killed after stop timeout")
	return Result{Status: botstate.Stopped, PID: pid}, nil
}

// Shutdown stops a running child; it is used when the backend exits.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	_, err := s.Stop(ctx)
	return err
}
