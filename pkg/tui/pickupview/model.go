// Package pickupview is the Bubble Tea screen for notifying customers that a
// service is complete.
package pickupview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/app"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/pickup"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/store"
	"tableflip.dev/pitstop/pkg/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeCompose
	modeConfirmAll
	modeConfirmSkip
	modeSearch
	modeNewContact
	modeDone
)

var help = map[mode]string{
	modeList:        "enter compose · a send all · / link contact · n new contact · s skip · q quit",
	modeCompose:     "enter send · esc close",
	modeConfirmAll:  "y send · n cancel",
	modeConfirmSkip: "y skip · n cancel",
	modeSearch:      "type 3+ digits · ↑/↓ select · enter link · esc close",
	modeNewContact:  "tab next field · enter create · esc close",
	modeDone:        "v open vehicle messages · q quit",
}

// Result is what the screen ended with.
type Result struct {
	Skipped bool
	Handoff *compose.Handoff
	// OpenVin is set when the user asked to jump to the vehicle's messages.
	OpenVin bool
}

type loadedMsg struct{ err error }

type sentMsg struct {
	out compose.Outcome
	res api.Result
}

type sentAllMsg struct {
	sum pickup.Summary
	err error
}

type linkedMsg struct{ err error }

type createdMsg struct {
	contact shop.Contact
	err     error
}

type searchMsg struct{ res pickup.SearchResult }

// Model is the pickup screen for one service record.
type Model struct {
	svc    *app.Service
	flow   *pickup.Flow
	id     int
	ctx    context.Context
	cancel context.CancelFunc
	theme  theme.Theme

	mode   mode
	cursor int

	editor textinput.Model

	search       textinput.Model
	searcher     *pickup.Searcher
	searchCh     chan pickup.SearchResult
	results      []shop.Contact
	resultCursor int

	name    textinput.Model
	phone   textinput.Model
	field   int
	summary string

	result Result
	status string
	err    string

	termWidth int
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	return ti
}

// New creates the screen for serviceRecordID. Init loads the record.
func New(svc *app.Service, serviceRecordID int) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		svc:      svc,
		flow:     svc.Pickup(serviceRecordID),
		id:       serviceRecordID,
		ctx:      ctx,
		cancel:   cancel,
		theme:    theme.Default(),
		editor:   newInput("› ", "message", 640),
		search:   newInput("phone: ", "at least 3 digits", 20),
		searchCh: make(chan pickup.SearchResult, 1),
		name:     newInput("name:  ", "Jane Doe", 80),
		phone:    newInput("phone: ", "5551234567", 20),
	}
}

// Run shows the screen and returns how it ended.
func Run(svc *app.Service, serviceRecordID int) (Result, error) {
	m := New(svc, serviceRecordID)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return Result{}, err
	}
	return m.result, nil
}

// Result returns how the screen ended.
func (m *Model) Result() Result {
	return m.result
}

func (m *Model) shutdown() {
	if m.searcher != nil {
		m.searcher.Close()
	}
	m.cancel()
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	flow, ctx := m.flow, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: flow.Load(ctx)}
	}
}

func (m *Model) waitForSearch() tea.Cmd {
	ch, ctx := m.searchCh, m.ctx
	return func() tea.Msg {
		select {
		case r := <-ch:
			return searchMsg{res: r}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) startSearch() tea.Cmd {
	if m.searcher == nil {
		ch := m.searchCh
		m.searcher = pickup.NewSearcher(m.ctx, m.svc.Backend, pickup.SearchDelay, func(r pickup.SearchResult) {
			for {
				select {
				case ch <- r:
					return
				default:
				}
				select {
				case <-ch:
				default:
				}
			}
		})
	}
	m.mode = modeSearch
	m.search.SetValue("")
	m.results = nil
	m.resultCursor = 0
	return tea.Batch(m.search.Focus(), m.waitForSearch())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			break
		}
		if n := len(m.flow.Contacts()); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
	case sentMsg:
		if !msg.res.OK {
			m.err = "Failed to send message: " + msg.res.Detail()
			break
		}
		m.err = ""
		m.mode = modeDone
		m.summary = msg.out.Confirmation
		h := msg.out.Handoff
		m.result.Handoff = &h
	case sentAllMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			m.mode = modeList
			break
		}
		m.svc.Note(store.ActionSendAll, fmt.Sprintf("service record %d: %s", m.id, msg.sum), nil)
		m.mode = modeDone
		m.summary = msg.sum.String()
		h := msg.sum.Handoff
		m.result.Handoff = &h
	case linkedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			break
		}
		m.err = ""
		m.status = "Contact linked"
		m.mode = modeList
		m.search.Blur()
	case createdMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			break
		}
		m.err = ""
		m.status = "Created " + msg.contact.String()
		m.mode = modeList
		m.name.Blur()
		m.phone.Blur()
	case searchMsg:
		if m.mode == modeSearch {
			m.results = msg.res.Contacts
			m.resultCursor = 0
			if msg.res.Err != nil {
				m.err = msg.res.Err.Detail
			}
			cmds = append(cmds, m.waitForSearch())
		}
	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if cmd := m.updateFocused(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeCompose:
		m.editor, cmd = m.editor.Update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeNewContact:
		if m.field == 0 {
			m.name, cmd = m.name.Update(msg)
		} else {
			m.phone, cmd = m.phone.Update(msg)
		}
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.shutdown()
		return tea.Quit
	}

	switch m.mode {
	case modeCompose:
		switch key {
		case "enter":
			if err := m.flow.Edit(m.editor.Value()); err != nil {
				m.err = err.Error()
				return nil
			}
			flow, ctx := m.flow, m.ctx
			m.status = "Sending…"
			return func() tea.Msg {
				out, res := flow.Send(ctx)
				return sentMsg{out: out, res: res}
			}
		case "esc":
			m.flow.CloseComposer()
			m.editor.Blur()
			m.mode = modeList
			return nil
		}
		return m.updateFocused(msg)
	case modeConfirmAll:
		switch key {
		case "y", "enter":
			flow, ctx := m.flow, m.ctx
			m.status = "Sending to all contacts…"
			return func() tea.Msg {
				sum, _, err := flow.SendAll(ctx, nil)
				return sentAllMsg{sum: sum, err: err}
			}
		case "n", "esc":
			m.mode = modeList
		}
		return nil
	case modeConfirmSkip:
		switch key {
		case "y", "enter":
			m.flow.Skip(nil)
			m.svc.Note(store.ActionSkip, fmt.Sprintf("service record %d", m.id), nil)
			m.result.Skipped = true
			m.shutdown()
			return tea.Quit
		case "n", "esc":
			m.mode = modeList
		}
		return nil
	case modeSearch:
		switch key {
		case "esc":
			m.mode = modeList
			m.search.Blur()
			return nil
		case "up":
			if m.resultCursor > 0 {
				m.resultCursor--
			}
			return nil
		case "down":
			if m.resultCursor < len(m.results)-1 {
				m.resultCursor++
			}
			return nil
		case "enter":
			if m.resultCursor >= len(m.results) {
				return nil
			}
			id := m.results[m.resultCursor].ID
			flow, ctx := m.flow, m.ctx
			return func() tea.Msg {
				return linkedMsg{err: flow.LinkContact(ctx, id)}
			}
		}
		cmd := m.updateFocused(msg)
		m.searcher.Input(m.search.Value())
		return cmd
	case modeNewContact:
		switch key {
		case "esc":
			m.mode = modeList
			m.name.Blur()
			m.phone.Blur()
			return nil
		case "tab", "shift+tab":
			m.field = 1 - m.field
			if m.field == 0 {
				m.phone.Blur()
				return m.name.Focus()
			}
			m.name.Blur()
			return m.phone.Focus()
		case "enter":
			in := shop.NewContact{Name: m.name.Value(), PhoneNumber: m.phone.Value()}
			flow, ctx := m.flow, m.ctx
			return func() tea.Msg {
				c, err := flow.CreateContact(ctx, in)
				return createdMsg{contact: c, err: err}
			}
		}
		return m.updateFocused(msg)
	case modeDone:
		switch key {
		case "v":
			m.result.OpenVin = true
			m.shutdown()
			return tea.Quit
		case "q", "enter", "esc":
			m.shutdown()
			return tea.Quit
		}
		return nil
	}

	switch key {
	case "q":
		m.shutdown()
		return tea.Quit
	case "down", "j":
		if m.cursor < len(m.flow.Contacts())-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		contacts := m.flow.Contacts()
		if m.cursor >= len(contacts) {
			return nil
		}
		d, err := m.flow.Compose(contacts[m.cursor].ID)
		if err != nil {
			m.err = err.Error()
			return nil
		}
		m.err = ""
		m.editor.SetValue(d.Message)
		m.mode = modeCompose
		return m.editor.Focus()
	case "a":
		if m.flow.State() != pickup.Ready || len(m.flow.Contacts()) == 0 {
			m.err = "No contacts to send to"
			return nil
		}
		m.mode = modeConfirmAll
	case "s":
		m.mode = modeConfirmSkip
	case "/":
		if m.flow.Record() == nil {
			return nil
		}
		return m.startSearch()
	case "n":
		if m.flow.Record() == nil {
			return nil
		}
		m.mode = modeNewContact
		m.field = 0
		m.name.SetValue("")
		m.phone.SetValue("")
		return m.name.Focus()
	}
	return nil
}

func (m *Model) width() int {
	if m.termWidth <= 0 {
		return 80
	}
	return m.termWidth
}

func (m *Model) recordView() string {
	p := m.theme.Panel
	sr := m.flow.Record()
	if sr == nil {
		if m.flow.State() == pickup.Loading {
			return p.Muted.Render("Loading…")
		}
		return ""
	}
	title := fmt.Sprintf("Service record %d · %s · %s", sr.ID, sr.Vin.Label(), sr.Vin.Vin)
	if m.flow.PickupSent() {
		title += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✔ pickup sent")
	}
	loc := m.svc.Location
	lines := []string{
		p.Title.Render(title),
		p.Muted.Render(fmt.Sprintf("%s at %d mi · %s (%s) · next %d on %s",
			sr.ServiceDate.Short(loc), sr.MileageAtService, sr.OilLabel(), sr.OilViscosity,
			sr.NextServiceMileageDue, sr.NextServiceDateDue.Short(loc))),
	}
	return p.Frame.Width(m.width()).Render(strings.Join(lines, "\n"))
}

func (m *Model) contactsView() string {
	p := m.theme.Panel
	contacts := m.flow.Contacts()
	if m.flow.Record() == nil {
		return ""
	}
	if len(contacts) == 0 {
		return p.Muted.Render("No contacts linked. Press / to link one or n to create one.")
	}
	lines := []string{p.Title.Render("Contacts")}
	for i, c := range contacts {
		prefix := "  "
		if i == m.cursor && m.mode == modeList {
			prefix = "› "
		}
		lines = append(lines, prefix+c.String())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) modalView() string {
	mt := m.theme.Modal
	inner := m.width() - 8
	switch m.mode {
	case modeCompose:
		d := m.flow.Draft()
		if d == nil {
			return ""
		}
		body := []string{
			mt.Title.Render("To " + d.Contact.String()),
			m.editor.View(),
			"",
			m.theme.Panel.Muted.Render(wordwrap.String("Reminder preview: "+d.ReminderPreview, inner)),
		}
		return mt.Frame.Render(strings.Join(body, "\n"))
	case modeConfirmAll:
		return mt.Frame.Render(mt.Body.Render(pickup.SendAllPrompt(len(m.flow.Contacts()))))
	case modeConfirmSkip:
		return mt.Frame.Render(mt.Body.Render(pickup.SkipPrompt))
	case modeSearch:
		body := []string{mt.Title.Render("Link existing contact"), m.search.View()}
		for i, c := range m.results {
			prefix := "  "
			if i == m.resultCursor {
				prefix = "› "
			}
			body = append(body, prefix+c.String())
		}
		return mt.Frame.Render(strings.Join(body, "\n"))
	case modeNewContact:
		return mt.Frame.Render(strings.Join([]string{mt.Title.Render("New contact"), m.name.View(), m.phone.View()}, "\n"))
	case modeDone:
		return mt.Frame.Render(mt.Title.Render(m.summary))
	}
	return ""
}

func (m *Model) View() string {
	sections := []string{m.recordView(), m.contactsView()}
	if modal := m.modalView(); modal != "" {
		sections = append(sections, modal)
	}
	ft := m.theme.Footer
	switch {
	case m.err != "":
		sections = append(sections, ft.Error.Render(m.err))
	case m.status != "":
		sections = append(sections, ft.Status.Render(m.status))
	}
	sections = append(sections, ft.Help.Render(help[m.mode]))
	return strings.Join(sections, "\n")
}
