// Package tui is the interactive mode: an ASCII map of event markers
// with day/category filtering, search, and crosshair-driven event
// creation.
package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anteater/eventmap/src/api"
	"github.com/anteater/eventmap/src/controller"
	"github.com/anteater/eventmap/src/event"
	"github.com/anteater/eventmap/src/logging"
	"github.com/anteater/eventmap/src/mapview"
	"github.com/anteater/eventmap/src/scheduler"
	"github.com/anteater/eventmap/src/search"
)

// mode is the TUI's input focus.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDate
	modePick
	modeForm
)

// bootstrap phases, mirroring the initial load sequence: today's
// events, then the unconditional upcoming batch, then demo markers.
const (
	bootIdle = iota
	bootToday
	bootUpcoming
)

// NoticeLog collects controller notices so they can be drained on the
// update loop. The controller invokes the callback synchronously from
// Update, but the log still guards itself for safety.
type NoticeLog struct {
	mu    sync.Mutex
	items []controller.Notice
}

// NewNoticeLog creates an empty notice log
func NewNoticeLog() *NoticeLog {
	return &NoticeLog{}
}

// Add appends a notice; it is the controller's notify callback.
func (n *NoticeLog) Add(notice controller.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notice)
}

// Drain returns and clears the pending notices.
func (n *NoticeLog) Drain() []controller.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}

// Messages delivered back to the update loop.

type tickMsg time.Time

type statusExpireMsg struct{ id int }

type autoRefreshMsg struct{}

type loadDoneMsg struct {
	load   controller.Load
	events []event.Event
	err    error
	boot   int // bootstrap phase this load belongs to, bootIdle otherwise
}

type searchDoneMsg struct {
	events []event.Event
	err    error
}

type createDoneMsg struct {
	payload *event.Event
	res     *api.CreateResult
	err     error
}

// formField indexes into the create form.
const (
	fieldTitle = iota
	fieldDescription
	fieldDay
	fieldStart
	fieldEnd
	fieldCategories
	fieldCount
)

// Model is the bubbletea model for interactive mode.
type Model struct {
	client  *api.Client
	ctrl    *controller.Controller
	notices *NoticeLog

	mode mode

	width   int
	height  int
	mounted bool
	boot    int

	searchInput string
	dateInput   string

	// crosshair position for location picking
	pickCol int
	pickRow int

	// create form
	form    [fieldCount]string
	focused int

	// marker selection
	selectedIdx int // -1 when nothing is selected

	status      controller.Notice
	statusID    int
	statusShown bool

	animating bool
}

// New creates the TUI model over an API client and controller. The
// notice log must be the one wired into the controller's notify
// callback.
func New(client *api.Client, ctrl *controller.Controller, notices *NoticeLog) Model {
	return Model{
		client:      client,
		ctrl:        ctrl,
		notices:     notices,
		dateInput:   ctrl.Day(),
		selectedIdx: -1,
	}
}

// Init implements tea.Model. The initial load waits for the first
// WindowSizeMsg so the map is mounted before anything is drawn.
func (m Model) Init() tea.Cmd {
	return nil
}

// mapRows returns the number of terminal rows given to the map pane.
func (m Model) mapRows() int {
	rows := m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

// startLoad dispatches a fetch for the given filter and returns the
// command that will deliver its outcome.
func (m *Model) startLoad(day string, categories []string, opts controller.LoadOptions, boot int) tea.Cmd {
	l := m.ctrl.StartLoad(day, categories, opts)
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		events, err := client.List(ctx, l.Day, l.Categories)
		return loadDoneMsg{load: l, events: events, err: err, boot: boot}
	}
}

// startSearch dispatches a free-text search.
func (m *Model) startSearch(day, query string, ai bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		events, err := client.Search(ctx, day, query, ai)
		return searchDoneMsg{events: events, err: err}
	}
}

// startCreate POSTs a validated payload.
func (m *Model) startCreate(payload *event.Event) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := client.Create(ctx, *payload)
		return createDoneMsg{payload: payload, res: res, err: err}
	}
}

// animTick steps the camera animation at 20fps.
func animTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// drainNotices surfaces the newest pending notice on the status line.
func (m *Model) drainNotices() tea.Cmd {
	pending := m.notices.Drain()
	if len(pending) == 0 {
		return nil
	}
	m.status = pending[len(pending)-1]
	m.statusShown = true
	m.statusID++
	id := m.statusID
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpireMsg{id: id}
	})
}

// ensureAnim starts the animation ticker if the camera is in flight.
func (m *Model) ensureAnim() tea.Cmd {
	if m.animating || !m.ctrl.Map().Animating() {
		return nil
	}
	m.animating = true
	return animTick()
}

// selectedMarker returns the currently selected DB marker, if any.
func (m Model) selectedMarker() *mapview.Marker {
	markers := m.ctrl.DBMarkers()
	if m.selectedIdx < 0 || m.selectedIdx >= len(markers) {
		return nil
	}
	return markers[m.selectedIdx]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.Map().Mount(msg.Width, m.mapRows())
		if !m.mounted {
			m.mounted = true
			m.boot = bootToday
			return m, m.startLoad(m.ctrl.Day(), m.ctrl.Categories(),
				controller.LoadOptions{Fit: true, KeepExistingOnEmpty: true}, bootToday)
		}
		return m, nil

	case tickMsg:
		if m.ctrl.Map().Step(time.Time(msg)) {
			return m, animTick()
		}
		m.animating = false
		return m, nil

	case statusExpireMsg:
		if msg.id == m.statusID {
			m.statusShown = false
		}
		return m, nil

	case autoRefreshMsg:
		if m.mode != modeBrowse {
			return m, nil
		}
		return m, m.startLoad(m.ctrl.Day(), m.ctrl.Categories(),
			controller.LoadOptions{}, bootIdle)

	case loadDoneMsg:
		m.ctrl.ApplyLoad(msg.load, msg.events, msg.err)
		m.selectedIdx = -1
		cmds := []tea.Cmd{m.drainNotices(), m.ensureAnim()}

		switch msg.boot {
		case bootToday:
			m.boot = bootUpcoming
			cmds = append(cmds, m.startLoad(m.ctrl.Day(), nil,
				controller.LoadOptions{Fit: true, KeepExistingOnEmpty: true}, bootUpcoming))
		case bootUpcoming:
			m.boot = bootIdle
			if err := m.ctrl.LoadDemoMarkers(); err != nil {
				logging.Warn("failed to add demo markers", "err", err)
			}
		}
		return m, tea.Batch(cmds...)

	case searchDoneMsg:
		if msg.err != nil {
			logging.Warn("search failed", "err", msg.err)
		}
		m.ctrl.ApplySearchResults(msg.events)
		m.selectedIdx = -1
		return m, tea.Batch(m.drainNotices(), m.ensureAnim())

	case createDoneMsg:
		reload := m.ctrl.ApplyCreate(msg.payload, msg.res, msg.err)
		m.mode = modeBrowse
		m.form = [fieldCount]string{}
		m.focused = fieldTitle
		l := reload
		client := m.client
		fetch := func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			events, err := client.List(ctx, l.Day, l.Categories)
			return loadDoneMsg{load: l, events: events, err: err, boot: bootIdle}
		}
		return m, tea.Batch(m.drainNotices(), fetch)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDate:
			return m.updateDate(msg)
		case modePick:
			return m.updatePick(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

// updateBrowse handles keys in the default map-browsing mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.mode = modeSearch
		return m, nil

	case "d":
		m.mode = modeDate
		m.dateInput = m.ctrl.Day()
		return m, nil

	case "n":
		switch m.ctrl.BeginCreate() {
		case controller.CreateAwaitingClick:
			m.mode = modePick
			m.pickCol = m.width / 2
			m.pickRow = m.mapRows() / 2
		case controller.CreateFormOpen:
			// Degraded path: no map to pick from.
			m.mode = modeForm
			m.prepareForm()
		}
		return m, m.drainNotices()

	case "r":
		return m, m.startLoad(m.ctrl.Day(), m.ctrl.Categories(),
			controller.LoadOptions{Fit: true}, bootIdle)

	case "tab":
		markers := m.ctrl.DBMarkers()
		if len(markers) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(markers)
		}
		return m, nil

	case "esc":
		m.selectedIdx = -1
		m.statusShown = false
		return m, nil

	case "left", "h":
		m.ctrl.Map().Pan(-2, 0)
		return m, nil
	case "right", "l":
		m.ctrl.Map().Pan(2, 0)
		return m, nil
	case "up", "k":
		m.ctrl.Map().Pan(0, -1)
		return m, nil
	case "down", "j":
		m.ctrl.Map().Pan(0, 1)
		return m, nil
	case "+", "=":
		m.ctrl.Map().ZoomBy(1)
		return m, nil
	case "-", "_":
		m.ctrl.Map().ZoomBy(-1)
		return m, nil

	case "f":
		m.ctrl.FitMapToMarkers(m.ctrl.DBMarkers())
		return m, m.ensureAnim()
	}

	return m, nil
}

// routeQuery applies the search-bar routing rules: category tokens win
// over free text, an empty query falls back to the plain day listing.
func (m *Model) routeQuery(query string, ai bool) tea.Cmd {
	kind, _ := search.Route(query)
	switch kind {
	case search.KindCategories:
		cats := search.ExtractCategories(query)
		m.ctrl.SetCategoryFilter(cats)
		return m.startLoad(m.ctrl.Day(), m.ctrl.Categories(),
			controller.LoadOptions{Fit: true}, bootIdle)
	case search.KindList:
		m.ctrl.SetCategoryFilter(nil)
		return m.startLoad(m.ctrl.Day(), nil,
			controller.LoadOptions{Fit: true}, bootIdle)
	default:
		return m.startSearch(m.ctrl.Day(), query, ai)
	}
}

// updateSearch handles keys while the search bar has focus.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "enter":
		m.mode = modeBrowse
		return m, m.routeQuery(m.searchInput, false)

	case "ctrl+a":
		// AI-assisted search; category tokens still short-circuit.
		m.mode = modeBrowse
		return m, m.routeQuery(m.searchInput, true)

	case "backspace":
		if len(m.searchInput) > 0 {
			m.searchInput = m.searchInput[:len(m.searchInput)-1]
		}
		return m, nil

	default:
		if len(msg.String()) == 1 {
			m.searchInput += msg.String()
		}
		return m, nil
	}
}

// updateDate handles keys while the date field has focus. The load
// fires only on an explicit enter, never for the initial default date.
func (m Model) updateDate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = modeBrowse
		m.dateInput = m.ctrl.Day()
		return m, nil

	case "enter":
		m.mode = modeBrowse
		if event.NormalizeDay(m.dateInput) == m.ctrl.Day() {
			return m, nil
		}
		m.ctrl.SetDayFilter(m.dateInput)
		m.dateInput = m.ctrl.Day()
		return m, m.startLoad(m.ctrl.Day(), m.ctrl.Categories(),
			controller.LoadOptions{Fit: true}, bootIdle)

	case "backspace":
		if len(m.dateInput) > 0 {
			m.dateInput = m.dateInput[:len(m.dateInput)-1]
		}
		return m, nil

	default:
		s := msg.String()
		if len(s) == 1 && (s == "-" || (s[0] >= '0' && s[0] <= '9')) {
			m.dateInput += s
		}
		return m, nil
	}
}

// updatePick handles keys while the crosshair is up.
func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.ctrl.CancelCreate()
		m.mode = modeBrowse
		return m, nil

	case "enter":
		lng, lat := m.ctrl.Map().Unproject(m.pickCol, m.pickRow)
		m.ctrl.CaptureClick(lng, lat)
		m.mode = modeForm
		m.prepareForm()
		return m, nil

	case "left", "h":
		if m.pickCol > 0 {
			m.pickCol--
		}
		return m, nil
	case "right", "l":
		if m.pickCol < m.width-1 {
			m.pickCol++
		}
		return m, nil
	case "up", "k":
		if m.pickRow > 0 {
			m.pickRow--
		}
		return m, nil
	case "down", "j":
		if m.pickRow < m.mapRows()-1 {
			m.pickRow++
		}
		return m, nil
	}

	return m, nil
}

// prepareForm seeds the create form with the current filter day.
func (m *Model) prepareForm() {
	m.form = [fieldCount]string{}
	m.form[fieldDay] = m.ctrl.Day()
	m.focused = fieldTitle
}

// updateForm handles keys inside the create form.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.ctrl.CancelCreate()
		m.mode = modeBrowse
		m.form = [fieldCount]string{}
		return m, nil

	case "tab", "down":
		m.focused = (m.focused + 1) % fieldCount
		return m, nil

	case "shift+tab", "up":
		m.focused = (m.focused + fieldCount - 1) % fieldCount
		return m, nil

	case "enter":
		if m.focused < fieldCount-1 {
			m.focused++
			return m, nil
		}
		return m.submitForm()

	case "ctrl+s":
		return m.submitForm()

	case "backspace":
		if len(m.form[m.focused]) > 0 {
			m.form[m.focused] = m.form[m.focused][:len(m.form[m.focused])-1]
		}
		return m, nil

	default:
		if len(msg.String()) == 1 {
			m.form[m.focused] += msg.String()
		}
		return m, nil
	}
}

// submitForm validates the form through the controller and POSTs when
// it passes. Validation failures keep the form open with a notice; the
// no-location guard tears the flow down entirely.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	payload, err := m.ctrl.StartSubmit(controller.FormData{
		Title:       m.form[fieldTitle],
		Description: m.form[fieldDescription],
		Day:         m.form[fieldDay],
		StartTime:   m.form[fieldStart],
		EndTime:     m.form[fieldEnd],
		Categories:  m.form[fieldCategories],
	})
	notice := m.drainNotices()
	if err != nil {
		if m.ctrl.CreateStateValue() == controller.CreateIdle {
			m.mode = modeBrowse
			m.form = [fieldCount]string{}
		}
		return m, notice
	}
	return m, tea.Batch(notice, m.startCreate(payload))
}

// Run starts interactive mode and blocks until the user quits. An
// optional cron expression schedules automatic refreshes of the active
// filter; the reload channel (from the config watcher) triggers the
// same refresh.
func Run(client *api.Client, ctrl *controller.Controller, notices *NoticeLog, refresh string, reload <-chan struct{}) error {
	m := New(client, ctrl, notices)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if refresh != "" {
		sched := scheduler.New()
		if err := sched.AddTask("refresh", refresh, func() error {
			p.Send(autoRefreshMsg{})
			return nil
		}); err != nil {
			logging.Warn("invalid refresh schedule", "schedule", refresh, "err", err)
		} else {
			sched.Start()
			defer sched.Stop()
		}
	}

	if reload != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case _, ok := <-reload:
					if !ok {
						return
					}
					p.Send(autoRefreshMsg{})
				case <-done:
					return
				}
			}
		}()
	}

	defer ctrl.Close()
	_, err := p.Run()
	return err
}
