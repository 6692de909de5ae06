//go:build unix

package supervisor

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

func newTest(t *testing.T, opts Options) *Supervisor {
	t.Helper()
	if opts.StartSettle == 0 {
		opts.StartSettle = 100 * time.Millisecond
	}
	s := New(opts)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func TestStartStop(t *testing.T) {
	s := newTest(t, Options{Command: []string{"sleep", "30"}})
	ctx := context.Background()

	assert.Equal(t, botstate.Stopped, s.Status())
	assert.Zero(t, s.PID())

	res, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Running, res.Status)
	assert.Empty(t, res.Message)
	assert.Positive(t, res.PID)
	assert.Equal(t, botstate.Running, s.Status())
	assert.Equal(t, res.PID, s.PID())

	again, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Running, again.Status)
	assert.Equal(t, MsgAlreadyRunning, again.Message)
	assert.Equal(t, res.PID, again.PID)

	stopped, err := s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, stopped.Status)
	assert.Empty(t, stopped.Message)
	assert.Equal(t, botstate.Stopped, s.Status())

	again, err = s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, again.Status)
	assert.Equal(t, MsgAlreadyStopped, again.Message)
}

func TestStopWhenNeverStarted(t *testing.T) {
	s := newTest(t, Options{Command: []string{"sleep", "30"}})
	res, err := s.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, res.Status)
	assert.Equal(t, MsgAlreadyStopped, res.Message)
}

func TestStartImmediateExit(t *testing.T) {
	s := newTest(t, Options{
		Command:     []string{"sh", "-c", "exit 3"},
		StartSettle: time.Second,
	})
	res, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, botstate.Error, res.Status)
	assert.Equal(t, "Не удалось запустить бота. Код возврата: 3", res.Message)
	assert.Equal(t, botstate.Stopped, s.Status())
}

func TestStartAfterExitRestarts(t *testing.T) {
	s := newTest(t, Options{Command: []string{"sh", "-c", "exit 0"}, StartSettle: time.Second})
	first, err := s.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, botstate.Error, first.Status)

	second, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, MsgAlreadyRunning, second.Message)
	assert.NotEqual(t, first.PID, second.PID)
}

func TestStartMissingExecutable(t *testing.T) {
	s := newTest(t, Options{Command: []string{"/nonexistent/bot-binary"}})
	res, err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supervisor: start")
	assert.Equal(t, botstate.Error, res.Status)
	assert.Equal(t, botstate.Stopped, s.Status())
}

func TestStartNoCommand(t *testing.T) {
	s := newTest(t, Options{})
	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestStopEscalatesToKill(t *testing.T) {
	// SIG_IGN is inherited across exec, so sleep ignores SIGTERM as well.
	s := newTest(t, Options{
		Command:     []string{"sh", "-c", `trap "" TERM; sleep 30`},
		StopTimeout: 200 * time.Millisecond,
	})
	ctx := context.Background()
	res, err := s.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, botstate.Running, res.Status)

	begin := time.Now()
	stopped, err := s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, stopped.Status)
	assert.GreaterOrEqual(t, time.Since(begin), 200*time.Millisecond)
	assert.Equal(t, botstate.Stopped, s.Status())
}

func TestStopKeepsGraceWhenCallerCancels(t *testing.T) {
	// The bot needs a moment to flush state after SIGTERM.
	s := newTest(t, Options{
		Command:     []string{"sh", "-c", `trap "sleep 0.3; exit 0" TERM; while :; do sleep 0.05; done`},
		StopTimeout: 3 * time.Second,
	})
	res, err := s.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, botstate.Running, res.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	begin := time.Now()
	stopped, err := s.Stop(ctx)
	elapsed := time.Since(begin)
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, stopped.Status)
	assert.GreaterOrEqual(t, elapsed, 250*time.Millisecond, "SIGKILL sent before the bot finished its TERM handler")
	assert.Less(t, elapsed, 3*time.Second)
	assert.Equal(t, botstate.Stopped, s.Status())
}

func TestStatusDuringStop(t *testing.T) {
	s := newTest(t, Options{
		Command:     []string{"sh", "-c", `trap "" TERM; sleep 30`},
		StopTimeout: time.Second,
	})
	res, err := s.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, botstate.Running, res.Status)

	stopped := make(chan Result, 1)
	go func() {
		r, _ := s.Stop(context.Background())
		stopped <- r
	}()
	time.Sleep(100 * time.Millisecond)

	begin := time.Now()
	status := s.Status()
	pid := s.PID()
	assert.Less(t, time.Since(begin), 100*time.Millisecond)
	assert.Equal(t, botstate.Running, status)
	assert.Equal(t, res.PID, pid)

	select {
	case r := <-stopped:
		assert.Equal(t, botstate.Stopped, r.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, botstate.Stopped, s.Status())
}

func TestOutputAndEnv(t *testing.T) {
	var out bytes.Buffer
	s := newTest(t, Options{
		Command:     []string{"sh", "-c", `echo "mode=$BOT_MODE"; sleep 30`},
		Env:         []string{"BOT_MODE=paper"},
		Output:      &out,
		StartSettle: 300 * time.Millisecond,
	})
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.Stop(ctx)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "mode=paper")
}
