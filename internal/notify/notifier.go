// Package notify sends fire-and-forget HTTP notifications for bot control
// events. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
)

// Options selects which notifications are forwarded.
type Options struct {
	OnSuccess bool
	OnError   bool
	Logger    *logrus.Entry
}

// Notifier posts plain-text HTTP notifications for transition results.
type Notifier struct {
	url       string
	title     string
	onSuccess bool
	onError   bool
	client    *resty.Client
	log       *logrus.Entry
	wg        sync.WaitGroup
}

// New creates a Notifier. projectName is used as the X-Title header; if empty,
// "botctl" is used instead.
func New(notifURL, projectName string, opts Options) *Notifier {
	title := "botctl"
	if projectName != "" {
		title = projectName
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = logrus.NewEntry(l)
	}
	return &Notifier{
		url:       notifURL,
		title:     title,
		onSuccess: opts.OnSuccess,
		onError:   opts.OnError,
		client:    resty.New().SetTimeout(10 * time.Second),
		log:       log.WithField("component", "notify"),
	}
}

// Hook consumes control events. It fires asynchronous POSTs for
// notifications that match the configured flags; snapshots are ignored.
func (n *Notifier) Hook(ev control.Event) {
	if ev.Kind != control.EventNotification {
		return
	}
	switch ev.Notification.Level {
	case control.LevelSuccess:
		if !n.onSuccess {
			return
		}
	case control.LevelError:
		if !n.onError {
			return
		}
	default:
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.post(ev.Notification)
	}()
}

// Wait blocks until in-flight posts have finished.
func (n *Notifier) Wait() { n.wg.Wait() }

// post sends a plain-text POST to the configured URL. Failures are logged at
// debug and otherwise discarded so notifications never interrupt control.
func (n *Notifier) post(note control.Notification) {
	tag := "white_check_mark"
	if note.Level == control.LevelError {
		tag = "warning"
	}
	resp, err := n.client.R().
		SetHeader("Content-Type", "text/plain").
		SetHeader("X-Title", n.title).
		SetHeader("X-Tags", tag).
		SetBody(note.Message).
		Post(n.url)
	if err != nil {
		n.log.WithError(err).Debug("notification post failed")
		return
	}
	if resp.IsError() {
		n.log.WithField("status", resp.StatusCode()).Debug("notification rejected")
	}
}
