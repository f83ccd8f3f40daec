// Package msglist turns message listings into cards and owns the cancel
// action on them. Whether cards get a cancel affordance is decided once, by
// the Policy passed to Render.
package msglist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/timeutil"
)

var (
	// ErrNotCancelable is returned when a card has no cancel affordance.
	ErrNotCancelable = errors.New("msglist: message cannot be canceled")
	// ErrUnknownCard is returned when no card carries the requested id.
	ErrUnknownCard = errors.New("msglist: no such message")
	// ErrNoHandler is returned by Click before AttachCancel.
	ErrNoHandler = errors.New("msglist: cancel handler not attached")
)

// CancelPrompt is shown before a cancel request is issued.
const CancelPrompt = "Cancel this scheduled message?"

// Policy decides what affordances cards carry.
type Policy struct {
	WithCancel bool
}

// Card is one rendered outbound message.
type Card struct {
	ID          int
	Kind        string
	Contact     string
	Phone       string
	Vehicle     string
	Vin         string
	Body        string
	Status      string
	Class       shop.Status
	Scheduled   string
	SentAt      string
	Created     string
	CancelLabel string
}

// HasCancel reports whether the card shows a cancel affordance.
func (c *Card) HasCancel() bool {
	return c.CancelLabel != ""
}

// Canceler is the slice of the API client the cancel action needs.
type Canceler interface {
	CancelMessage(ctx context.Context, id int) api.Result
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Container holds the cards of one view.
type Container struct {
	mu       sync.Mutex
	cards    []*Card
	byID     map[int]*Card
	policy   Policy
	attached bool
	client   Canceler
	confirm  Confirmer
}

// Render builds cards for msgs with times shown in loc.
func Render(msgs []shop.OutboundMessage, policy Policy, loc *time.Location) *Container {
	if loc == nil {
		loc = time.Local
	}
	c := &Container{
		cards:  make([]*Card, 0, len(msgs)),
		byID:   make(map[int]*Card, len(msgs)),
		policy: policy,
	}
	for i := range msgs {
		card := newCard(&msgs[i], policy, loc)
		c.cards = append(c.cards, card)
		c.byID[card.ID] = card
	}
	return c
}

func newCard(m *shop.OutboundMessage, policy Policy, loc *time.Location) *Card {
	card := &Card{
		ID:        m.ID,
		Kind:      m.Kind(),
		Contact:   m.ContactName,
		Phone:     m.ContactPhone,
		Vehicle:   m.VehicleInfo,
		Vin:       m.VinString,
		Body:      m.MessageContent,
		Status:    m.Status.Label(),
		Class:     m.Status.Normalize(),
		Scheduled: timeutil.FormatLocal(m.ScheduledTime.In(loc)),
		SentAt:    timeutil.FormatLocal(m.SentAt.In(loc)),
		Created:   timeutil.FormatLocal(m.CreatedAt.In(loc)),
	}
	if policy.WithCancel && m.Cancelable() {
		card.CancelLabel = "Cancel"
	}
	return card
}

// Cards returns a snapshot of the cards in display order.
func (c *Container) Cards() []Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Card, len(c.cards))
	for i, card := range c.cards {
		out[i] = *card
	}
	return out
}

// Card returns a copy of the card with id.
func (c *Container) Card(id int) (Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return *card, true
}

func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cards)
}

// Policy returns the policy the container was rendered with.
func (c *Container) Policy() Policy {
	return c.policy
}

// AttachCancel installs the cancel handler. Only the first call takes
// effect; it reports whether this call attached it.
func (c *Container) AttachCancel(client Canceler, confirm Confirmer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached {
		return false
	}
	c.attached = true
	c.client = client
	c.confirm = confirm
	return true
}

// Click runs the cancel action for the card with id. It returns false with a
// nil error when the user declines. On success the card alone is updated in
// place; on failure the card is left unchanged and the error carries the
// backend detail.
func (c *Container) Click(ctx context.Context, id int) (bool, error) {
	c.mu.Lock()
	card, ok := c.byID[id]
	client, confirm := c.client, c.confirm
	attached := c.attached
	hasCancel := ok && card.HasCancel()
	c.mu.Unlock()

	switch {
	case !attached:
		return false, ErrNoHandler
	case !ok:
		return false, fmt.Errorf("%w: %d", ErrUnknownCard, id)
	case !hasCancel:
		return false, fmt.Errorf("%w: %d", ErrNotCancelable, id)
	}

	if confirm != nil && !confirm.Confirm(CancelPrompt) {
		return false, nil
	}

	res := client.CancelMessage(ctx, id)
	if !res.OK {
		return false, fmt.Errorf("msglist: cancel %d: %w", id, res.Err)
	}

	c.mu.Lock()
	card.Status = "CANCELED"
	card.Class = shop.Canceled
	card.CancelLabel = ""
	c.mu.Unlock()
	return true, nil
}

// InboundCard is one rendered inbound message.
type InboundCard struct {
	Sender   string
	From     string
	Body     string
	Received string
}

// RenderInbound builds cards for inbound messages with times shown in loc.
func RenderInbound(msgs []shop.InboundMessage, loc *time.Location) []InboundCard {
	if loc == nil {
		loc = time.Local
	}
	out := make([]InboundCard, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		out = append(out, InboundCard{
			Sender:   m.Sender(),
			From:     m.FromNumber,
			Body:     m.Body,
			Received: timeutil.FormatLocal(m.CreatedAt.In(loc)),
		})
	}
	return out
}
