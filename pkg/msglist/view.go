package msglist

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/pitstop/pkg/shop"
)

// Styles are the lipgloss styles cards are drawn with.
type Styles struct {
	Frame    lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Meta     lipgloss.Style
	Body     lipgloss.Style
	Cancel   lipgloss.Style
	Status   map[shop.Status]lipgloss.Style
}

// DefaultStyles keys the status badge and border color by status.
func DefaultStyles() Styles {
	return Styles{
		Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Selected: lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1),
		Header:   lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Body:     lipgloss.NewStyle(),
		Cancel:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1),
		Status: map[shop.Status]lipgloss.Style{
			shop.Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			shop.Sent:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			shop.Failed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			shop.Canceled: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true).Strikethrough(true),
		},
	}
}

func (s Styles) status(class shop.Status) lipgloss.Style {
	if st, ok := s.Status[class]; ok {
		return st
	}
	return s.Status[shop.Pending]
}

func (s Styles) border(class shop.Status) color.Color {
	switch class {
	case shop.Sent:
		return lipgloss.Color("42")
	case shop.Failed:
		return lipgloss.Color("196")
	case shop.Canceled:
		return lipgloss.Color("240")
	default:
		return lipgloss.Color("214")
	}
}

// View draws one card at width columns.
func (s Styles) View(card Card, width int, selected bool) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	header := s.Header.Render(fmt.Sprintf("%s · %s", card.Kind, card.Contact))
	if card.Phone != "" {
		header += s.Meta.Render(" " + card.Phone)
	}
	header += "  " + s.status(card.Class).Render(card.Status)
	if card.HasCancel() {
		header += "  " + s.Cancel.Render(card.CancelLabel)
	}

	lines := []string{header}
	if vehicle := strings.TrimSpace(strings.Join([]string{card.Vehicle, card.Vin}, " ")); vehicle != "" {
		lines = append(lines, s.Meta.Render(vehicle))
	}
	if card.Body != "" {
		lines = append(lines, s.Body.Render(wordwrap.String(card.Body, inner)))
	}
	lines = append(lines, s.Meta.Render(fmt.Sprintf("scheduled %s · sent %s · created %s", card.Scheduled, card.SentAt, card.Created)))

	frame := s.Frame
	if selected {
		frame = s.Selected
	}
	return frame.BorderForeground(s.border(card.Class)).Width(width).Render(strings.Join(lines, "\n"))
}

// ViewAll draws every card in the container, highlighting the one at cursor.
// A cursor of -1 highlights nothing.
func (s Styles) ViewAll(c *Container, width, cursor int) string {
	cards := c.Cards()
	if len(cards) == 0 {
		return s.Meta.Render("No messages.")
	}
	out := make([]string, len(cards))
	for i, card := range cards {
		out[i] = s.View(card, width, i == cursor)
	}
	return strings.Join(out, "\n")
}

// ViewInbound draws inbound messages newest first as delivered.
func (s Styles) ViewInbound(cards []InboundCard, width int) string {
	if len(cards) == 0 {
		return s.Meta.Render("No inbound messages.")
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	out := make([]string, len(cards))
	for i, card := range cards {
		header := s.Header.Render(card.Sender) + s.Meta.Render(" "+card.From)
		body := s.Body.Render(wordwrap.String(card.Body, inner))
		meta := s.Meta.Render("received " + card.Received)
		out[i] = s.Frame.Width(width).Render(strings.Join([]string{header, body, meta}, "\n"))
	}
	return strings.Join(out, "\n")
}
