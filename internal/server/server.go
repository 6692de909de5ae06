// Package server is the HTTP backend the control client talks to. It exposes
// the bot supervisor as GET /bot_status, POST /start_bot and POST /stop_bot.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/supervisor"
)

// Bot is the process control surface. *supervisor.Supervisor satisfies it.
type Bot interface {
	Start(ctx context.Context) (supervisor.Result, error)
	Stop(ctx context.Context) (supervisor.Result, error)
	Status() botstate.RunState
}

// StatusResponse is the body of every bot endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Server serves the bot endpoints.
type Server struct {
	bot Bot
	log *logrus.Entry
}

// New creates a Server for bot.
func New(bot Bot, log *logrus.Entry) *Server {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Server{bot: bot, log: log.WithField("component", "server")}
}

// Router builds the gin engine.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bot_status", s.handleStatus)
	r.POST("/start_bot", s.handleStart)
	r.POST("/stop_bot", s.handleStop)
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("backend listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("backend stopped")
	return nil
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: s.bot.Status().String()})
}

// Errors are reported in the body with HTTP 200: the dashboard reads the
// status field, not the response code.
func (s *Server) handleStart(c *gin.Context) {
	res, err := s.bot.Start(c.Request.Context())
	if err != nil {
		msg := "Ошибка при запуске бота: " + err.Error()
		s.log.WithError(err).Error("start failed")
		c.JSON(http.StatusOK, StatusResponse{Status: botstate.Error.String(), Message: msg})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: res.Status.String(), Message: res.Message})
}

func (s *Server) handleStop(c *gin.Context) {
	res, err := s.bot.Stop(c.Request.Context())
	if err != nil {
		msg := "Ошибка при остановке бота: " + err.Error()
		s.log.WithError(err).Error("stop failed")
		c.JSON(http.StatusOK, StatusResponse{Status: botstate.Error.String(), Message: msg})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: res.Status.String(), Message: res.Message})
}

// requestLogger logs each request at debug, and failures at warn.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"client":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusBadRequest {
			entry.Warn("request")
			return
		}
		entry.Debug("request")
	}
}
