// Package control implements the bot control client: it owns the observed
// run-state, polls the backend for it, and mediates start/stop transitions
// so that the two control buttons always reflect in-flight requests.
package control

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botapi"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
)

const (
	// DefaultPollInterval is the status poll period.
	DefaultPollInterval = 5 * time.Second
	// DefaultConfirmDelay is the wait before the confirmatory poll that
	// follows a successful transition.
	DefaultConfirmDelay = 2 * time.Second
)

// API is the backend surface the client needs. *botapi.Client satisfies it.
type API interface {
	Status(ctx context.Context) (botapi.StatusResponse, error)
	Start(ctx context.Context) (botapi.ActionResponse, error)
	Stop(ctx context.Context) (botapi.ActionResponse, error)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	ConfirmDelay time.Duration
	Logger       *logrus.Entry

	// After replaces time.After for the confirmatory poll delay (tests).
	After func(time.Duration) <-chan time.Time
	// Now replaces time.Now for event timestamps (tests).
	Now func() time.Time
}

// Client is the bot control client. One instance is created per session; all
// methods are safe for concurrent use and none of them return errors: every
// failure becomes run-state plus a notification.
type Client struct {
	api          API
	log          *logrus.Entry
	pollInterval time.Duration
	confirmDelay time.Duration
	after        func(time.Duration) <-chan time.Time
	now          func() time.Time

	mu          sync.Mutex
	state       botstate.RunState
	lastSettled botstate.RunState
	inFlight    bool
	pending     botstate.Action
	pollSeq     uint64 // id of the most recently issued poll
	appliedSeq  uint64 // polls with id <= appliedSeq are stale
	subs        []chan Event
	closing     bool // no new background polls
	closed      bool

	wg sync.WaitGroup // background polls
}

// New creates a Client in the Unknown state.
func New(api API, opts Options) *Client {
	c := &Client{
		api:          api,
		log:          opts.Logger,
		pollInterval: opts.PollInterval,
		confirmDelay: opts.ConfirmDelay,
		after:        opts.After,
		now:          opts.Now,
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		c.log = logrus.NewEntry(l)
	}
	c.log = c.log.WithField("component", "control")
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.confirmDelay <= 0 {
		c.confirmDelay = DefaultConfirmDelay
	}
	if c.after == nil {
		c.after = time.After
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Subscribe returns a channel that receives every subsequent event. Delivery
// never blocks the client: if the buffer is full the event is dropped.
func (c *Client) Subscribe(buffer int) <-chan Event {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// Snapshot returns the current observable state.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Run polls immediately and then on every poll interval until ctx is done.
// Each tick issues an independent request, so a slow poll never delays the
// next one. Run returns after all polls it started have finished.
func (c *Client) Run(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.log.WithField("interval", c.pollInterval).Debug("status polling started")
	c.spawn(ctx, func() { c.Poll(ctx) })
	for {
		select {
		case <-ctx.Done():
			c.wg.Wait()
			c.log.Debug("status polling stopped")
			return
		case <-ticker.C:
			c.spawn(ctx, func() { c.Poll(ctx) })
		}
	}
}

// Poll issues one status request and applies its result unless a transition
// is in flight or a newer poll has already been applied. It reports whether
// the result was applied.
func (c *Client) Poll(ctx context.Context) bool {
	c.mu.Lock()
	c.pollSeq++
	seq := c.pollSeq
	c.mu.Unlock()

	resp, err := c.api.Status(ctx)
	next := resp.State()
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned (shutdown); not an observation of the backend.
			return false
		}
		next = botstate.Error
		entry := c.log.WithError(err).WithField("seq", seq)
		if botapi.IsUnknownStatus(err) {
			entry.Warn("backend reported unrecognized bot status")
		} else {
			entry.Warn("bot status request failed")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		c.log.WithField("seq", seq).Debug("poll result suppressed: transition in flight")
		return false
	}
	if seq <= c.appliedSeq {
		c.log.WithFields(logrus.Fields{"seq": seq, "applied": c.appliedSeq}).Debug("stale poll result discarded")
		return false
	}
	c.appliedSeq = seq
	changed := c.setStateLocked(next)
	if changed {
		c.log.WithField("state", next).Info("bot state changed")
	}
	c.emitLocked(Event{Kind: EventSnapshot, Snapshot: c.snapshotLocked()})
	return true
}

// RequestTransition starts or stops the bot. It is ignored (no request is
// issued) while another transition is in flight or when the action's button
// is disabled. Both buttons stay disabled until the request resolves; the
// in-flight latch is released on every outcome. A successful transition is
// followed by one confirmatory poll after the confirm delay.
func (c *Client) RequestTransition(ctx context.Context, action botstate.Action) Outcome {
	if !c.begin(action) {
		return OutcomeIgnored
	}

	var (
		outcome = OutcomeFailed
		next    = botstate.Unknown
		note    Notification
	)
	defer func() { c.finish(ctx, action, outcome, next, note) }()

	resp, err := c.call(ctx, action)
	switch {
	case err == nil:
		outcome = OutcomeSucceeded
		next = action.Target()
		note = Notification{Level: LevelSuccess, Action: action, Message: successMessage(action)}
	case botapi.IsRejection(err):
		outcome = OutcomeRejected
		next = resp.State()
		msg := resp.Message
		if msg == "" {
			msg = rejectedMessage(action)
		}
		note = Notification{Level: LevelError, Action: action, Message: msg}
		c.log.WithError(err).WithField("action", action).Warn("backend rejected transition")
	default:
		note = Notification{Level: LevelError, Action: action, Message: transportMessage(action)}
		c.log.WithError(err).WithField("action", action).Error("transition request failed")
	}
	return outcome
}

// Wait blocks until background polls (ticks and confirmations) have finished.
func (c *Client) Wait() { c.wg.Wait() }

// Close stops scheduling background polls, waits for the running ones and
// closes all subscriber channels.
func (c *Client) Close() {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

// begin takes the in-flight latch. Buttons are disabled (and subscribers told
// so) before the request goes out.
func (c *Client) begin(action botstate.Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		c.log.WithField("action", action).Debug("transition ignored: another one in flight")
		return false
	}
	if !c.controlsLocked().Allows(action) {
		c.log.WithField("action", action).Debug("transition ignored: control disabled")
		return false
	}
	c.inFlight = true
	c.pending = action
	c.log.WithField("action", action).Info("transition requested")
	c.emitLocked(Event{Kind: EventSnapshot, Snapshot: c.snapshotLocked()})
	return true
}

func (c *Client) finish(ctx context.Context, action botstate.Action, outcome Outcome, next botstate.RunState, note Notification) {
	c.mu.Lock()
	c.inFlight = false
	// Any poll issued before the transition resolved is older than its result.
	c.appliedSeq = c.pollSeq
	if next.Settled() {
		c.setStateLocked(next)
	}
	c.log.WithFields(logrus.Fields{"action": action, "outcome": outcome, "state": c.state}).Info("transition finished")
	c.emitLocked(Event{Kind: EventNotification, Notification: note})
	c.emitLocked(Event{Kind: EventSnapshot, Snapshot: c.snapshotLocked()})
	c.mu.Unlock()

	if outcome == OutcomeSucceeded {
		c.scheduleConfirm(ctx)
	}
}

func (c *Client) call(ctx context.Context, action botstate.Action) (botapi.ActionResponse, error) {
	if action == botstate.ActionStop {
		return c.api.Stop(ctx)
	}
	return c.api.Start(ctx)
}

// scheduleConfirm reconciles with the backend once the just-accepted state
// has had time to settle.
func (c *Client) scheduleConfirm(ctx context.Context) {
	wait := c.after(c.confirmDelay)
	c.spawn(ctx, func() {
		select {
		case <-ctx.Done():
		case <-wait:
			c.Poll(ctx)
		}
	})
}

// spawn runs fn in the background unless the client is closing or ctx is
// already done. The WaitGroup is only grown under mu, so it never races
// with the Wait in Close.
func (c *Client) spawn(ctx context.Context, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing || ctx.Err() != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Client) setStateLocked(next botstate.RunState) bool {
	changed := c.state != next
	c.state = next
	if next.Settled() {
		c.lastSettled = next
	}
	return changed
}

func (c *Client) controlsLocked() botstate.Controls {
	return botstate.Project(c.state, c.lastSettled, c.inFlight)
}

func (c *Client) snapshotLocked() Snapshot {
	return Snapshot{
		State:       c.state,
		LastSettled: c.lastSettled,
		InFlight:    c.inFlight,
		Pending:     c.pending,
		Controls:    c.controlsLocked(),
		At:          c.now(),
	}
}

// emitLocked fans ev out to subscribers without blocking. Holding mu keeps
// events in the order the state changed.
func (c *Client) emitLocked(ev Event) {
	if c.closed {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.now()
	}
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			c.log.WithField("kind", ev.Kind).Debug("subscriber full, event dropped")
		}
	}
}
