// Package pickup drives the "service completed, notify the customer" flow
// for one service record: load the record and its contacts, compose and send
// a pickup message to one or all of them, or skip.
package pickup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/shop"
)

var (
	// ErrVinMissing is the state error when the record has no vehicle.
	ErrVinMissing = errors.New("VIN data is missing from the service record.")
	// ErrAlreadyLinked is returned when the contact is already on the vehicle.
	ErrAlreadyLinked = errors.New("This contact is already linked to the current VIN.")
	// ErrWrongState is returned when an action is not valid in the current state.
	ErrWrongState = errors.New("pickup: action not valid in current state")
	// ErrUnknownContact is returned when a contact id is not linked to the vehicle.
	ErrUnknownContact = errors.New("pickup: contact not linked to this vehicle")
)

const (
	SkipPrompt = "Are you sure you want to skip sending messages?\n\nYou can always come back to send messages later."
)

// SendAllPrompt is the confirmation shown before a bulk send.
func SendAllPrompt(n int) string {
	return fmt.Sprintf("Are you sure you want to send pickup messages to all %d contacts?\n\nThis action cannot be undone.", n)
}

// State is where the flow is.
type State int

const (
	Loading State = iota
	Ready
	Composing
	Sent
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Composing:
		return "composing"
	case Sent:
		return "sent"
	case Failed:
		return "error"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Client is the slice of the API client the flow needs.
type Client interface {
	GetServiceRecord(ctx context.Context, id int) (shop.ServiceRecord, api.Result)
	PickupSent(ctx context.Context, serviceRecordID int) (bool, api.Result)
	SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, api.Result)
	CreateContact(ctx context.Context, in shop.NewContact) (shop.Contact, api.Result)
	LinkContact(ctx context.Context, contactID, vinID int) api.Result
	SearchContacts(ctx context.Context, q string) ([]shop.Contact, api.Result)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Handoff names the vehicle profile to open once the flow ends.
type Handoff = compose.Handoff

// Options tunes a Flow.
type Options struct {
	Signature compose.Signature
	Location  *time.Location
	Logger    *slog.Logger
}

// Flow is the state machine for one service record.
type Flow struct {
	client Client
	id     int
	sig    compose.Signature
	loc    *time.Location
	log    *slog.Logger

	mu         sync.Mutex
	state      State
	record     *shop.ServiceRecord
	err        error
	pickupSent bool
	draft      *compose.Draft
	outcome    *compose.Outcome
}

// New returns a flow in the loading state. Call Load to fetch the record.
func New(client Client, serviceRecordID int, opts Options) *Flow {
	if opts.Signature == (compose.Signature{}) {
		opts.Signature = compose.DefaultSignature()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Flow{
		client: client,
		id:     serviceRecordID,
		sig:    opts.Signature,
		loc:    opts.Location,
		log:    opts.Logger.With("component", "pickup", "service_record_id", serviceRecordID),
		state:  Loading,
	}
}

// Load fetches the record with its vehicle and contacts. The flow ends in
// Ready, or in Failed when the record cannot be used.
func (f *Flow) Load(ctx context.Context) error {
	f.mu.Lock()
	f.state = Loading
	f.mu.Unlock()

	sr, res := f.client.GetServiceRecord(ctx, f.id)
	if !res.OK {
		return f.fail(res.Err)
	}
	if sr.Vin == nil {
		return f.fail(ErrVinMissing)
	}

	sent, pres := f.client.PickupSent(ctx, f.id)
	if !pres.OK {
		f.log.Warn("pickup-sent lookup failed", "detail", pres.Detail())
	}

	f.mu.Lock()
	f.record = &sr
	f.pickupSent = sent
	f.err = nil
	f.state = Ready
	f.mu.Unlock()
	return nil
}

func (f *Flow) fail(err error) error {
	f.mu.Lock()
	f.state = Failed
	f.err = err
	f.mu.Unlock()
	return err
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err is the error that put the flow in Failed.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Record returns the loaded service record, or nil.
func (f *Flow) Record() *shop.ServiceRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

// Contacts linked to the vehicle.
func (f *Flow) Contacts() []shop.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record == nil || f.record.Vin == nil {
		return nil
	}
	return append([]shop.Contact(nil), f.record.Vin.Contacts...)
}

// PickupSent reports whether a pickup message already went out for the record.
func (f *Flow) PickupSent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pickupSent
}

// Draft is the open composer, or nil.
func (f *Flow) Draft() *compose.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return nil
	}
	d := *f.draft
	return &d
}

// Outcome is the result of the last successful single send.
func (f *Flow) Outcome() *compose.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

func (f *Flow) loaded() bool {
	return f.record != nil && f.record.Vin != nil
}

// Compose opens the composer for one contact, replacing any open one.
func (f *Flow) Compose(contactID int) (compose.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded() || f.state == Skipped || f.state == Loading {
		return compose.Draft{}, fmt.Errorf("%w: compose from %s", ErrWrongState, f.state)
	}
	var contact *shop.Contact
	for i := range f.record.Vin.Contacts {
		if f.record.Vin.Contacts[i].ID == contactID {
			contact = &f.record.Vin.Contacts[i]
			break
		}
	}
	if contact == nil {
		return compose.Draft{}, fmt.Errorf("%w: %d", ErrUnknownContact, contactID)
	}
	d := compose.New(f.record, f.record.Vin, *contact, f.sig, f.loc)
	f.draft = &d
	f.err = nil
	f.state = Composing
	return d, nil
}

// Edit replaces the text of the open draft.
func (f *Flow) Edit(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil || (f.state != Composing && f.state != Failed) {
		return fmt.Errorf("%w: edit from %s", ErrWrongState, f.state)
	}
	f.draft.Message = message
	return nil
}

// CloseComposer discards the open draft.
func (f *Flow) CloseComposer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Composing || (f.state == Failed && f.loaded()) {
		f.state = Ready
	}
	f.draft = nil
}

// Send submits the open draft. On success the flow is Sent and the outcome
// carries the handoff to the vehicle profile.
func (f *Flow) Send(ctx context.Context) (compose.Outcome, api.Result) {
	f.mu.Lock()
	if f.draft == nil || (f.state != Composing && f.state != Failed) {
		state := f.state
		f.mu.Unlock()
		return compose.Outcome{}, api.Failed(0, fmt.Sprintf("%v: send from %s", ErrWrongState, state))
	}
	d := *f.draft
	f.mu.Unlock()

	out, res := compose.Submit(ctx, f.client, d)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !res.OK {
		f.state = Failed
		f.err = res.Err
		return out, res
	}
	f.state = Sent
	f.pickupSent = true
	f.outcome = &out
	f.draft = nil
	return out, res
}

// Failure is one contact the bulk send could not reach.
type Failure struct {
	Contact shop.Contact
	Detail  string
}

// Summary reports a bulk send. Attempted always equals the contact count.
type Summary struct {
	Attempted int
	Succeeded int
	Failures  []Failure
	Handoff   Handoff
}

func (s Summary) String() string {
	msg := fmt.Sprintf("Messages sent to %d contacts!", s.Attempted)
	if n := len(s.Failures); n > 0 {
		msg += fmt.Sprintf(" (%d failed)", n)
	}
	return msg
}

// SendAll sends the pickup message to every linked contact, one after the
// other. A failed contact is logged and the rest are still attempted. It
// returns false without sending when the user declines.
func (f *Flow) SendAll(ctx context.Context, confirm Confirmer) (Summary, bool, error) {
	f.mu.Lock()
	if !f.loaded() || f.state == Skipped || f.state == Loading {
		state := f.state
		f.mu.Unlock()
		return Summary{}, false, fmt.Errorf("%w: send all from %s", ErrWrongState, state)
	}
	record := f.record
	contacts := append([]shop.Contact(nil), record.Vin.Contacts...)
	f.mu.Unlock()

	if len(contacts) == 0 {
		return Summary{}, false, fmt.Errorf("%w: no contacts linked", ErrWrongState)
	}
	if confirm != nil && !confirm.Confirm(SendAllPrompt(len(contacts))) {
		return Summary{}, false, nil
	}

	sum := Summary{Handoff: Handoff{VinString: record.Vin.Vin}}
	for _, c := range contacts {
		sum.Attempted++
		d := compose.New(record, record.Vin, c, f.sig, f.loc)
		if _, res := compose.Submit(ctx, f.client, d); !res.OK {
			f.log.Error("pickup send failed", "contact", c.Name, "contact_id", c.ID, "detail", res.Detail())
			sum.Failures = append(sum.Failures, Failure{Contact: c, Detail: res.Detail()})
			continue
		}
		f.log.Info("pickup sent", "contact", c.Name, "contact_id", c.ID)
		sum.Succeeded++
	}

	f.mu.Lock()
	f.state = Sent
	f.draft = nil
	if sum.Succeeded > 0 {
		f.pickupSent = true
	}
	f.mu.Unlock()
	return sum, true, nil
}

// Skip leaves the flow without sending anything. It returns false when the
// user declines.
func (f *Flow) Skip(confirm Confirmer) bool {
	if confirm != nil && !confirm.Confirm(SkipPrompt) {
		return false
	}
	f.mu.Lock()
	f.state = Skipped
	f.draft = nil
	f.mu.Unlock()
	return true
}

// CreateContact creates a contact, links it to the vehicle and reloads.
func (f *Flow) CreateContact(ctx context.Context, in shop.NewContact) (shop.Contact, error) {
	vinID, err := f.vinID()
	if err != nil {
		return shop.Contact{}, err
	}
	if err := in.Validate(); err != nil {
		return shop.Contact{}, err
	}
	c, res := f.client.CreateContact(ctx, in)
	if !res.OK {
		return shop.Contact{}, fmt.Errorf("pickup: create contact: %w", res.Err)
	}
	if err := f.link(ctx, c.ID, vinID); err != nil {
		return c, err
	}
	return c, f.Load(ctx)
}

// LinkContact links an existing contact to the vehicle and reloads.
func (f *Flow) LinkContact(ctx context.Context, contactID int) error {
	vinID, err := f.vinID()
	if err != nil {
		return err
	}
	if err := f.link(ctx, contactID, vinID); err != nil {
		return err
	}
	return f.Load(ctx)
}

func (f *Flow) link(ctx context.Context, contactID, vinID int) error {
	res := f.client.LinkContact(ctx, contactID, vinID)
	if res.OK {
		return nil
	}
	if IsAlreadyLinked(res) {
		return ErrAlreadyLinked
	}
	return fmt.Errorf("pickup: link contact: %w", res.Err)
}

// IsAlreadyLinked reports whether a link failure is the duplicate-link case.
func IsAlreadyLinked(res api.Result) bool {
	if res.OK || res.Err == nil || res.Err.Status != 400 {
		return false
	}
	return strings.Contains(strings.ToLower(res.Err.Detail), "already linked")
}

func (f *Flow) vinID() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded() {
		return 0, fmt.Errorf("%w: no vehicle loaded", ErrWrongState)
	}
	return f.record.Vin.ID, nil
}
