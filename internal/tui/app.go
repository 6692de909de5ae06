package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/control"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/tui/panels"
)

// Button captions.
const (
	StartLabel     = "Запустить бота"
	StopLabel      = "Остановить бота"
	StartBusyLabel = "Запуск..."
	StopBusyLabel  = "Остановка..."
)

// Options configures the dashboard.
type Options struct {
	ProjectName string
	BackendURL  string
	AccentColor string

	// Context bounds the controller calls made from key handlers. nil means
	// context.Background().
	Context context.Context
}

// Model is the root bubbletea model for the bot dashboard.
type Model struct {
	// Event source and control surface
	events <-chan control.Event
	ctrl   Controller
	ctx    context.Context

	// Widgets
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	spinning bool
	toasts   panels.ToastStack
	activity panels.ActivityPanel

	// Layout
	layout Layout
	theme  Theme
	width  int
	height int

	// Bot state
	snap       control.Snapshot
	stateSince time.Time

	// Time
	startedAt time.Time
	now       time.Time

	// Identity
	projectName string
	backendURL  string

	done bool
}

// New creates the dashboard model. events is a control.Client subscription;
// ctrl may be nil for a read-only view.
func New(events <-chan control.Event, ctrl Controller, opts Options) Model {
	now := time.Now()
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	layout := Calculate(80, 24)
	actW, actH := innerDims(layout.Activity)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		events:      events,
		ctrl:        ctrl,
		ctx:         ctx,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		activity:    panels.NewActivityPanel(actW, actH),
		layout:      layout,
		theme:       NewTheme(opts.AccentColor),
		width:       80,
		height:      24,
		startedAt:   now,
		now:         now,
		stateSince:  now,
		projectName: opts.ProjectName,
		backendURL:  opts.BackendURL,
	}
	if ctrl != nil {
		m.snap = ctrl.Snapshot()
	} else {
		m.snap.Controls = botstate.Project(botstate.Unknown, botstate.Unknown, false)
	}
	m.keys = m.keys.syncEnabled(m.snap.Controls.StartEnabled, m.snap.Controls.StopEnabled)
	return m
}

// Done reports whether the event stream has ended.
func (m Model) Done() bool { return m.done }

// Snapshot returns the last control snapshot the model rendered.
func (m Model) Snapshot() control.Snapshot { return m.snap }

// Init returns the initial commands: event listener + clock ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tickCmd())
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan control.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		return m.handleEvent(control.Event(msg))
	case eventsClosedMsg:
		m.done = true
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case spinner.TickMsg:
		if !m.snap.InFlight {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case toastExpiredMsg:
		m.toasts = m.toasts.Expire(msg.ID)
		return m, nil
	case outcomeMsg:
		if msg.Outcome == control.OutcomeIgnored {
			m.activity = m.activity.Append(m.activityLine(m.now, mutedStyle,
				fmt.Sprintf("команда %q проигнорирована", msg.Action)))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		m.activity = m.activity.SetSize(innerDims(m.layout.Activity))
	}
	m.help.Width = msg.Width
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m, m.request(botstate.ActionStart)
	case key.Matches(msg, m.keys.Stop):
		return m, m.request(botstate.ActionStop)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

// request runs the transition off the UI goroutine. Repeated presses are
// safe: the controller ignores a request while another is in flight.
func (m Model) request(action botstate.Action) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return outcomeMsg{Action: action, Outcome: ctrl.RequestTransition(ctx, action)}
	}
}

func (m Model) refresh() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Poll(ctx)
		return nil
	}
}

func (m Model) handleEvent(ev control.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.events)}
	at := ev.Timestamp
	if at.IsZero() {
		at = m.now
	}

	switch ev.Kind {
	case control.EventSnapshot:
		prev := m.snap
		m.snap = ev.Snapshot
		m.keys = m.keys.syncEnabled(m.snap.Controls.StartEnabled, m.snap.Controls.StopEnabled)

		if m.snap.State != prev.State {
			m.stateSince = at
			m.activity = m.activity.Append(m.activityLine(at, m.theme.SeverityStyle(m.snap.Severity()),
				StateSymbol(m.snap.State)+" "+m.snap.Label()))
		}
		if m.snap.InFlight && !prev.InFlight {
			m.activity = m.activity.Append(m.activityLine(at, infoStyle, busyLabel(m.snap.Pending)))
			if !m.spinning {
				m.spinning = true
				cmds = append(cmds, m.spinner.Tick)
			}
		}

	case control.EventNotification:
		n := ev.Notification
		style := m.theme.LevelStyle(n.Level)
		var id int
		m.toasts, id = m.toasts.Push(n.Message, style, at)
		m.activity = m.activity.Append(m.activityLine(at, style, n.Message))
		cmds = append(cmds, tea.Tick(panels.ToastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{ID: id}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) activityLine(at time.Time, style lipgloss.Style, text string) string {
	return timestampStyle.Render(fmt.Sprintf("[%s]", at.Format("15:04:05"))) + "  " + style.Render(text)
}

func busyLabel(a botstate.Action) string {
	if a == botstate.ActionStop {
		return StopBusyLabel
	}
	return StartBusyLabel
}

// View renders the dashboard.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, MinWidth, MinHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		ProjectName: m.projectName,
		BackendURL:  m.backendURL,
		Elapsed:     m.now.Sub(m.startedAt),
		Clock:       m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	var since time.Duration
	if m.snap.State != botstate.Unknown {
		since = m.now.Sub(m.stateSince)
	}
	status := panels.RenderStatus(panels.StatusProps{
		Symbol:    StateSymbol(m.snap.State),
		Label:     m.snap.Label(),
		Since:     since,
		LastCheck: m.snap.At,
	}, m.theme.SeverityStyle(m.snap.Severity()))

	controls := panels.RenderControls(
		panels.ButtonProps{
			Label:     StartLabel,
			BusyLabel: StartBusyLabel,
			Key:       "s",
			Enabled:   m.snap.Controls.StartEnabled,
			Busy:      m.snap.InFlight && m.snap.Pending == botstate.ActionStart,
			Spinner:   m.spinner.View(),
		},
		panels.ButtonProps{
			Label:     StopLabel,
			BusyLabel: StopBusyLabel,
			Key:       "x",
			Enabled:   m.snap.Controls.StopEnabled,
			Busy:      m.snap.InFlight && m.snap.Pending == botstate.ActionStop,
			Spinner:   m.spinner.View(),
		},
		m.theme.ButtonStyle,
	)

	var pending string
	if m.snap.InFlight {
		pending = m.spinner.View() + " " + busyLabel(m.snap.Pending)
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Hints:   m.help.ShortHelpView(m.keys.ShortHelp()),
		Pending: pending,
		Paused:  !m.activity.Following(),
	}, m.layout.Footer.Width)

	statusW, statusH := innerDims(m.layout.Status)
	ctrlW, ctrlH := innerDims(m.layout.Controls)
	toastW, toastH := innerDims(m.layout.Toasts)
	actW, actH := innerDims(m.layout.Activity)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(false).Width(statusW).Height(statusH).Render(status),
		m.theme.PanelBorderStyle(true).Width(ctrlW).Height(ctrlH).Render(controls),
		m.theme.PanelBorderStyle(false).Width(toastW).Height(toastH).Render(m.toasts.View(toastW, toastH)),
	)
	right := m.theme.PanelBorderStyle(false).Width(actW).Height(actH).Render(m.activity.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
