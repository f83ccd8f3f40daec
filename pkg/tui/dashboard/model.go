// Package dashboard hosts the Bubble Tea message dashboard: category tabs,
// message cards with cancel, the inbound list and the unread badge.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/msglist"
	"tableflip.dev/pitstop/pkg/notify"
	"tableflip.dev/pitstop/pkg/tabs"
	"tableflip.dev/pitstop/pkg/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeConfirm
	modeDate
	modeInbound
)

const helpText = "tab/1-3 switch · j/k move · c cancel · d date · i inbound · r reload · q quit"

type pageLoadedMsg struct {
	page tabs.Page
	res  api.Result
}

type cancelDoneMsg struct {
	id  int
	ok  bool
	err error
}

type inboundLoadedMsg struct {
	cards []msglist.InboundCard
	res   api.Result
}

type pollerStartedMsg struct{}

type badgeMsg struct {
	badge notify.Badge
}

// Model is the dashboard screen.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc
	theme  theme.Theme

	ctrl    *tabs.Controller
	cards   *msglist.Container
	cursor  int
	loading bool

	poller  *notify.Poller
	badges  <-chan notify.Badge
	badge   notify.Badge
	inbound []msglist.InboundCard

	mode      mode
	confirmID int
	dateInput textinput.Model

	status string
	err    string

	termWidth  int
	termHeight int
}

// New creates a dashboard for scope. The poller is created here and started
// by Init.
func New(svc *app.Service, scope tabs.Scope) *Model {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD, empty for all"
	ti.CharLimit = 10
	ti.Prompt = "date: "
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:       svc,
		ctx:       ctx,
		cancel:    cancel,
		theme:     theme.Default(),
		ctrl:      svc.Tabs(scope),
		cards:     msglist.Render(nil, msglist.Policy{}, svc.Location),
		dateInput: ti,
		badge:     notify.BadgeFor(0),
	}
	if p, err := svc.Poller(); err == nil {
		m.poller = p
		m.badges = p.Updates()
	} else {
		m.err = err.Error()
	}
	return m
}

// Run launches the dashboard.
func Run(svc *app.Service, scope tabs.Scope) error {
	m := New(svc, scope)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) shutdown() {
	if m.poller != nil {
		m.poller.Stop()
	}
	m.cancel()
}

// Init loads the default tab and starts the unread poller.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.startPoller())
}

func (m *Model) startPoller() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	p := m.poller
	return func() tea.Msg {
		p.Start()
		return pollerStartedMsg{}
	}
}

func (m *Model) waitForBadge() tea.Cmd {
	if m.badges == nil {
		return nil
	}
	ch, ctx := m.badges, m.ctx
	return func() tea.Msg {
		select {
		case b := <-ch:
			return badgeMsg{badge: b}
		case <-ctx.Done():
			return nil
		}
	}
}

// reload issues a new ticket and fetches the highlighted tab. Earlier
// requests still in flight are dropped on delivery.
func (m *Model) reload() tea.Cmd {
	ticket, tab, date := m.ctrl.Begin()
	m.loading = true
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		page, res := ctrl.Fetch(ctx, ticket, tab, date)
		return pageLoadedMsg{page: page, res: res}
	}
}

func (m *Model) switchTab(tab tabs.Tab) tea.Cmd {
	m.ctrl.Select(tab)
	m.cursor = 0
	return m.reload()
}

func (m *Model) shiftTab(delta int) tea.Cmd {
	cur := m.ctrl.Current()
	idx := 0
	for i, t := range tabs.Tabs {
		if t == cur {
			idx = i
		}
	}
	n := len(tabs.Tabs)
	return m.switchTab(tabs.Tabs[((idx+delta)%n+n)%n])
}

func (m *Model) selected() (msglist.Card, bool) {
	cards := m.cards.Cards()
	if m.cursor < 0 || m.cursor >= len(cards) {
		return msglist.Card{}, false
	}
	return cards[m.cursor], true
}

func (m *Model) cancelCmd(id int) tea.Cmd {
	cards, ctx := m.cards, m.ctx
	return func() tea.Msg {
		ok, err := cards.Click(ctx, id)
		return cancelDoneMsg{id: id, ok: ok, err: err}
	}
}

func (m *Model) openInbound() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	p, ctx, loc := m.poller, m.ctx, m.svc.Location
	return func() tea.Msg {
		msgs, res := p.OpenInbound(ctx)
		return inboundLoadedMsg{cards: msglist.RenderInbound(msgs, loc), res: res}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case pageLoadedMsg:
		if !m.ctrl.Latest(msg.page.Ticket) {
			break
		}
		m.loading = false
		if !msg.res.OK {
			m.err = msg.res.Detail()
			break
		}
		m.err = ""
		m.cards = msglist.Render(msg.page.Messages, msglist.Policy{WithCancel: true}, m.svc.Location)
		// The confirm modal has already asked by the time Click runs.
		m.cards.AttachCancel(m.svc.Backend, nil)
		if m.cursor >= m.cards.Len() {
			m.cursor = max(0, m.cards.Len()-1)
		}
		m.status = fmt.Sprintf("%d of %d messages", m.cards.Len(), msg.page.Total)
	case cancelDoneMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err.Error()
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) {
				m.err = "Failed to cancel: " + apiErr.Detail
			}
		case msg.ok:
			m.err = ""
			m.status = fmt.Sprintf("Message %d canceled", msg.id)
		}
	case inboundLoadedMsg:
		if !msg.res.OK {
			m.err = msg.res.Detail()
			break
		}
		m.inbound = msg.cards
		m.status = fmt.Sprintf("%d inbound messages", len(msg.cards))
	case pollerStartedMsg:
		cmds = append(cmds, m.waitForBadge())
	case badgeMsg:
		m.badge = msg.badge
		cmds = append(cmds, m.waitForBadge())
	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if m.mode == modeDate {
			var cmd tea.Cmd
			m.dateInput, cmd = m.dateInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.shutdown()
		return tea.Quit
	}

	switch m.mode {
	case modeConfirm:
		switch key {
		case "y", "enter":
			m.mode = modeList
			return m.cancelCmd(m.confirmID)
		case "n", "esc":
			m.mode = modeList
			m.status = "Cancel aborted"
		}
		return nil
	case modeDate:
		switch key {
		case "enter":
			if err := m.ctrl.SetDateFilter(m.dateInput.Value()); err != nil {
				m.err = "Invalid date: " + m.dateInput.Value()
				return nil
			}
			m.mode = modeList
			m.dateInput.Blur()
			m.cursor = 0
			return m.reload()
		case "esc":
			m.mode = modeList
			m.dateInput.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return cmd
	case modeInbound:
		switch key {
		case "esc", "i", "q":
			m.mode = modeList
		}
		return nil
	}

	switch key {
	case "q":
		m.shutdown()
		return tea.Quit
	case "tab", "right", "l":
		return m.shiftTab(1)
	case "shift+tab", "left", "h":
		return m.shiftTab(-1)
	case "1", "2", "3":
		if i := int(key[0] - '1'); i < len(tabs.Tabs) {
			return m.switchTab(tabs.Tabs[i])
		}
	case "down", "j":
		if m.cursor < m.cards.Len()-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m.reload()
	case "c", "x":
		card, ok := m.selected()
		if !ok || !card.HasCancel() {
			m.status = "Selected message cannot be canceled"
			return nil
		}
		m.confirmID = card.ID
		m.mode = modeConfirm
	case "d":
		m.mode = modeDate
		m.dateInput.SetValue(m.ctrl.DateFilter())
		return m.dateInput.Focus()
	case "i":
		m.mode = modeInbound
		m.inbound = nil
		return m.openInbound()
	}
	return nil
}

func (m *Model) width() int {
	if m.termWidth <= 0 {
		return 80
	}
	return m.termWidth
}

func (m *Model) header() string {
	th := m.theme.Tabs
	cur := m.ctrl.Current()
	parts := make([]string, 0, len(tabs.Tabs)+1)
	for i, t := range tabs.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if t == cur {
			parts = append(parts, th.Active.Render(label))
		} else {
			parts = append(parts, th.Inactive.Render(label))
		}
	}
	date := m.ctrl.DateFilter()
	if date == "" {
		date = "all dates"
	}
	parts = append(parts, th.Filter.Render(date))
	if m.ctrl.Scope().IsVin() {
		parts = append(parts, th.Filter.Render(fmt.Sprintf("vin %d", m.ctrl.Scope().VinID)))
	}
	left := strings.Join(parts, " ")

	badge := m.theme.Badge[m.badge.Tone].Render("✉ " + m.badge.Text)
	if !m.badge.Visible {
		badge = m.theme.Badge[m.badge.Tone].Render("✉")
	}
	gap := m.width() - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + badge
}

func (m *Model) body(height int) string {
	switch {
	case m.mode == modeInbound:
		return m.theme.Cards.ViewInbound(m.inbound, m.width())
	case m.loading && m.cards.Len() == 0:
		return m.theme.Panel.Muted.Render("Loading…")
	}

	cards := m.cards.Cards()
	if len(cards) == 0 {
		return m.theme.Cards.ViewAll(m.cards, m.width(), -1)
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = m.theme.Cards.View(c, m.width(), i == m.cursor)
	}
	top := 0
	for top < m.cursor && linesBetween(rendered, top, m.cursor) > height {
		top++
	}
	var out []string
	used := 0
	for i := top; i < len(rendered); i++ {
		h := lipgloss.Height(rendered[i])
		if used+h > height && i > m.cursor {
			break
		}
		out = append(out, rendered[i])
		used += h
	}
	return strings.Join(out, "\n")
}

func linesBetween(rendered []string, from, to int) int {
	n := 0
	for i := from; i <= to && i < len(rendered); i++ {
		n += lipgloss.Height(rendered[i])
	}
	return n
}

func (m *Model) footer() string {
	ft := m.theme.Footer
	var line string
	switch {
	case m.err != "":
		line = ft.Error.Render(m.err)
	case m.loading:
		line = ft.Status.Render("Loading…")
	default:
		line = ft.Status.Render(m.status)
	}
	return line + "\n" + ft.Help.Render(helpText)
}

func (m *Model) View() string {
	height := m.termHeight - 4
	if height < 5 {
		height = 20
	}
	sections := []string{m.header(), m.body(height)}
	switch m.mode {
	case modeConfirm:
		modal := m.theme.Modal.Frame.Render(
			m.theme.Modal.Title.Render(msglist.CancelPrompt) + "\n\n" +
				m.theme.Modal.Body.Render("y confirm · n keep"))
		sections = append(sections, modal)
	case modeDate:
		sections = append(sections, m.dateInput.View())
	}
	sections = append(sections, m.footer())
	return strings.Join(sections, "\n")
}
