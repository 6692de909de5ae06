package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botapi"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/supervisor"
)

type fakeBot struct {
	status   botstate.RunState
	startRes supervisor.Result
	startErr error
	stopRes  supervisor.Result
	stopErr  error
}

func (f *fakeBot) Start(context.Context) (supervisor.Result, error) { return f.startRes, f.startErr }
func (f *fakeBot) Stop(context.Context) (supervisor.Result, error)  { return f.stopRes, f.stopErr }
func (f *fakeBot) Status() botstate.RunState                        { return f.status }

func do(t *testing.T, h http.Handler, method, path string) (int, StatusResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body StatusResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestStatus(t *testing.T) {
	tests := []struct {
		state botstate.RunState
		want  string
	}{
		{botstate.Running, "running"},
		{botstate.Stopped, "stopped"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			h := New(&fakeBot{status: tt.state}, nil).Router()
			code, body := do(t, h, http.MethodGet, "/bot_status")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, body.Status)
			assert.Empty(t, body.Message)
		})
	}
}

func TestStartBot(t *testing.T) {
	tests := []struct {
		name        string
		bot         *fakeBot
		wantStatus  string
		wantMessage string
	}{
		{
			name:       "started",
			bot:        &fakeBot{startRes: supervisor.Result{Status: botstate.Running}},
			wantStatus: "running",
		},
		{
			name:        "already running",
			bot:         &fakeBot{startRes: supervisor.Result{Status: botstate.Running, Message: supervisor.MsgAlreadyRunning}},
			wantStatus:  "running",
			wantMessage: "Бот уже запущен",
		},
		{
			name:        "exited immediately",
			bot:         &fakeBot{startRes: supervisor.Result{Status: botstate.Error, Message: "Не удалось запустить бота. Код возврата: 1"}},
			wantStatus:  "error",
			wantMessage: "Не удалось запустить бота. Код возврата: 1",
		},
		{
			name:        "spawn failure",
			bot:         &fakeBot{startErr: errors.New("exec: not found")},
			wantStatus:  "error",
			wantMessage: "Ошибка при запуске бота: exec: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, New(tt.bot, nil).Router(), http.MethodPost, "/start_bot")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestStopBot(t *testing.T) {
	tests := []struct {
		name        string
		bot         *fakeBot
		wantStatus  string
		wantMessage string
	}{
		{"stopped", &fakeBot{stopRes: supervisor.Result{Status: botstate.Stopped}}, "stopped", ""},
		{"already stopped", &fakeBot{stopRes: supervisor.Result{Status: botstate.Stopped, Message: supervisor.MsgAlreadyStopped}}, "stopped", "Бот уже остановлен"},
		{"kill failure", &fakeBot{stopErr: errors.New("operation not permitted")}, "error", "Ошибка при остановке бота: operation not permitted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, New(tt.bot, nil).Router(), http.MethodPost, "/stop_bot")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestRoutes(t *testing.T) {
	h := New(&fakeBot{}, nil).Router()

	code, _ := do(t, h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/start_bot", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "start must be POST")
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	h := New(&fakeBot{status: botstate.Running}, logrus.NewEntry(l)).Router()
	do(t, h, http.MethodGet, "/bot_status")

	out := buf.String()
	assert.Contains(t, out, "path=/bot_status")
	assert.Contains(t, out, "component=server")
}

// The control client's HTTP layer understands every response the server
// produces.
func TestClientRoundTrip(t *testing.T) {
	bot := &fakeBot{
		status:   botstate.Stopped,
		startRes: supervisor.Result{Status: botstate.Running},
		stopRes:  supervisor.Result{Status: botstate.Error, Message: "boom"},
	}
	srv := httptest.NewServer(New(bot, nil).Router())
	defer srv.Close()

	c := botapi.New(srv.URL, botapi.Options{})
	ctx := context.Background()

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, botstate.Stopped, st.State())

	_, err = c.Start(ctx)
	require.NoError(t, err)

	resp, err := c.Stop(ctx)
	require.Error(t, err)
	assert.True(t, botapi.IsRejection(err))
	assert.Equal(t, "boom", resp.Message)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(&fakeBot{status: botstate.Running}, nil).Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
