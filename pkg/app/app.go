package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/compose"
	"tableflip.dev/pitstop/pkg/notify"
	"tableflip.dev/pitstop/pkg/pickup"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/store"
	"tableflip.dev/pitstop/pkg/tabs"
)

var (
	// ErrVinMissing is returned when a service record has no vehicle.
	ErrVinMissing = pickup.ErrVinMissing
	// ErrAlreadyLinked is returned when a contact is already on the vehicle.
	ErrAlreadyLinked = pickup.ErrAlreadyLinked
	// ErrBadVin is returned for a VIN of the wrong length.
	ErrBadVin = errors.New("app: enter a 17-character VIN or its last 6 characters")
	// ErrShortQuery is returned for a contact search under three characters.
	ErrShortQuery = fmt.Errorf("app: search needs at least %d characters", pickup.MinSearchLen)
)

// Service provides high-level shop operations so the CLI and the TUI share
// logic. Every mutating call goes through Backend and lands in the journal.
type Service struct {
	Backend      *Backend
	Location     *time.Location
	Signature    compose.Signature
	PollInterval time.Duration
	Logger       *slog.Logger
}

// New wires a Service around client. journal may be nil.
func New(client *api.Client, journal store.Journal, loc *time.Location, sig compose.Signature, poll time.Duration, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	if poll <= 0 {
		poll = notify.DefaultInterval
	}
	return &Service{
		Backend:      NewBackend(client, journal, logger),
		Location:     loc,
		Signature:    sig,
		PollInterval: poll,
		Logger:       logger,
	}
}

func (s *Service) now() time.Time {
	return time.Now().In(s.Location)
}

// LookupVin accepts a full VIN or its last six characters.
func (s *Service) LookupVin(ctx context.Context, q string) (shop.Vin, error) {
	q = strings.ToUpper(strings.TrimSpace(q))
	if len(q) != 17 && len(q) != 6 {
		return shop.Vin{}, ErrBadVin
	}
	v, res := s.Backend.GetVin(ctx, q)
	return v, res.Error()
}

// DecodeVin resolves make, model, year and trim for a full VIN.
func (s *Service) DecodeVin(ctx context.Context, vin string) (api.DecodedVin, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) != 17 {
		return api.DecodedVin{}, ErrBadVin
	}
	d, res := s.Backend.DecodeVin(ctx, vin)
	return d, res.Error()
}

func (s *Service) CreateVin(ctx context.Context, in shop.NewVin) (shop.Vin, error) {
	if err := in.Validate(); err != nil {
		return shop.Vin{}, err
	}
	v, res := s.Backend.CreateVin(ctx, in)
	return v, res.Error()
}

// CreateServiceRecord validates against today's date in the shop's zone.
func (s *Service) CreateServiceRecord(ctx context.Context, in shop.NewServiceRecord) (shop.ServiceRecord, error) {
	if err := in.Validate(s.now()); err != nil {
		return shop.ServiceRecord{}, err
	}
	sr, res := s.Backend.CreateServiceRecord(ctx, in)
	return sr, res.Error()
}

func (s *Service) ServiceRecord(ctx context.Context, id int) (shop.ServiceRecord, error) {
	sr, res := s.Backend.GetServiceRecord(ctx, id)
	if err := res.Error(); err != nil {
		return sr, err
	}
	if sr.Vin == nil {
		return sr, ErrVinMissing
	}
	return sr, nil
}

// CreateContact creates a contact and, when vinID is set, links it.
func (s *Service) CreateContact(ctx context.Context, in shop.NewContact, vinID int) (shop.Contact, error) {
	if err := in.Validate(); err != nil {
		return shop.Contact{}, err
	}
	c, res := s.Backend.CreateContact(ctx, in)
	if err := res.Error(); err != nil {
		return c, err
	}
	if vinID == 0 {
		return c, nil
	}
	return c, s.LinkContact(ctx, c.ID, vinID)
}

func (s *Service) LinkContact(ctx context.Context, contactID, vinID int) error {
	res := s.Backend.LinkContact(ctx, contactID, vinID)
	if pickup.IsAlreadyLinked(res) {
		return ErrAlreadyLinked
	}
	return res.Error()
}

func (s *Service) SearchContacts(ctx context.Context, q string) ([]shop.Contact, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < pickup.MinSearchLen {
		return nil, ErrShortQuery
	}
	cs, res := s.Backend.SearchContacts(ctx, q)
	return cs, res.Error()
}

// Tabs returns a fresh tab controller for scope.
func (s *Service) Tabs(scope tabs.Scope) *tabs.Controller {
	return tabs.New(s.Backend, scope, s.Location)
}

// Messages loads one category once.
func (s *Service) Messages(ctx context.Context, scope tabs.Scope, tab tabs.Tab, date string) (tabs.Page, error) {
	c := s.Tabs(scope)
	if err := c.SetDateFilter(date); err != nil {
		return tabs.Page{}, err
	}
	page, res, err := c.Switch(ctx, tab)
	if err != nil {
		return page, err
	}
	return page, res.Error()
}

// CancelMessage cancels a pending message by id.
func (s *Service) CancelMessage(ctx context.Context, id int) error {
	return s.Backend.CancelMessage(ctx, id).Error()
}

// Poller returns a stopped unread-count poller.
func (s *Service) Poller() (*notify.Poller, error) {
	return notify.NewPoller(s.Backend, s.PollInterval, s.Logger)
}

// Pickup returns a flow for the service record, not yet loaded.
func (s *Service) Pickup(serviceRecordID int) *pickup.Flow {
	return pickup.New(s.Backend, serviceRecordID, pickup.Options{
		Signature: s.Signature,
		Location:  s.Location,
		Logger:    s.Logger,
	})
}

// PickupSent reports whether a pickup message already went out.
func (s *Service) PickupSent(ctx context.Context, serviceRecordID int) (bool, error) {
	sent, res := s.Backend.PickupSent(ctx, serviceRecordID)
	return sent, res.Error()
}

// Costs is the SMS spend for one day, or all time when date is empty.
func (s *Service) Costs(ctx context.Context, date string) (api.CostSummary, error) {
	sum, res := s.Backend.CostSummary(ctx, strings.TrimSpace(date))
	return sum, res.Error()
}

func (s *Service) MonthlyCosts(ctx context.Context) (api.MonthlyCosts, error) {
	m, res := s.Backend.CostMonthly(ctx)
	return m, res.Error()
}

// Journal returns the activity journal, or an error when none is configured.
func (s *Service) Journal() (store.Journal, error) {
	if s.Backend.journal == nil {
		return nil, errors.New("app: no journal configured")
	}
	return s.Backend.journal, nil
}

// Note records an action that has no remote call of its own, such as a
// skipped pickup or a bulk send summary.
func (s *Service) Note(action store.Action, subject string, err error) {
	res := api.Result{OK: true}
	if err != nil {
		res = api.Failed(0, err.Error())
	}
	s.Backend.Record(action, subject, res)
}
