// Package botapi is the HTTP client for the bot backend: GET /bot_status,
// POST /start_bot and POST /stop_bot.
package botapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

const userAgent = "botctl"

// StatusResponse is the body of GET /bot_status.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// State maps the response onto a RunState.
func (r StatusResponse) State() botstate.RunState {
	return botstate.ParseStatus(r.Status)
}

// ActionResponse is the body of POST /start_bot and POST /stop_bot.
type ActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// State maps the response onto a RunState.
func (r ActionResponse) State() botstate.RunState {
	return botstate.ParseStatus(r.Status)
}

// Options configures a Client.
type Options struct {
	Timeout time.Duration
}

// Client talks to the bot backend.
type Client struct {
	http    *resty.Client
	baseURL string
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts Options) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	return &Client{http: hc, baseURL: baseURL}
}

// BaseURL returns the backend URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Status fetches the current bot status. An unrecognized status value is
// returned together with an *UnknownStatus error.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, "status", "GET", "/bot_status", &out); err != nil {
		return StatusResponse{}, err
	}
	if !out.State().Settled() {
		return out, &UnknownStatus{Status: out.Status, Message: out.Message}
	}
	return out, nil
}

// Start asks the backend to start the bot. A response whose status is not
// "running" is returned together with a *BackendRejection error.
func (c *Client) Start(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, botstate.ActionStart)
}

// Stop asks the backend to stop the bot. A response whose status is not
// "stopped" is returned together with a *BackendRejection error.
func (c *Client) Stop(ctx context.Context) (ActionResponse, error) {
	return c.action(ctx, botstate.ActionStop)
}

func (c *Client) action(ctx context.Context, a botstate.Action) (ActionResponse, error) {
	var out ActionResponse
	if err := c.do(ctx, a.String(), "POST", a.Endpoint(), &out); err != nil {
		return ActionResponse{}, err
	}
	if out.State() != a.Target() {
		return out, &BackendRejection{Action: a, Status: out.Status, Message: out.Message}
	}
	return out, nil
}

// do issues the request and decodes the JSON body into out. All failures are
// returned as *TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, out any) error {
	req := c.http.R().SetContext(ctx)
	if method == "POST" {
		req.SetHeader("Content-Type", "application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &TransportError{Op: op, Err: errors.Wrap(err, method+" "+path)}
	}
	if resp.IsError() {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Err:        errors.Errorf("http non-2xx: %s", strings.TrimSpace(string(resp.Body()))),
		}
	}
	if jsonErr := json.Unmarshal(resp.Body(), out); jsonErr != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode(), Err: errors.Wrap(jsonErr, "decode body")}
	}
	return nil
}
