// Package tabs tracks which message category a view shows and loads it.
//
// One Controller exists per view scope: the master dashboard covers every
// vehicle, a VIN-scoped controller covers one vehicle's history. Every switch
// is a fresh fetch. Responses are tagged with a generation ticket so a slow
// reply for an older request never replaces a newer one.
package tabs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/timeutil"
)

// ErrStale is returned when a newer load was issued before this one finished.
var ErrStale = errors.New("tabs: stale response discarded")

// Tab is a message category.
type Tab string

const (
	Pickup   Tab = "pickup"
	Reminder Tab = "reminder"
	Sent     Tab = "sent"
	All      Tab = "all"
)

// Tabs are the categories shown as buttons, in display order.
var Tabs = []Tab{Pickup, Reminder, Sent}

// ParseTab accepts a category name, case-insensitively.
func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case Pickup, Reminder, Sent, All:
		return t, nil
	}
	return "", fmt.Errorf("tabs: unknown category %q (want pickup, reminder, sent or all)", s)
}

func (t Tab) Title() string {
	switch t {
	case Pickup:
		return "Pickup"
	case Reminder:
		return "Reminders"
	case Sent:
		return "Sent"
	default:
		return "All"
	}
}

// Scope selects whether a controller lists every vehicle or one VIN.
type Scope struct {
	VinID int
}

// Master is the all-vehicles scope.
var Master = Scope{}

// ForVin scopes a controller to one vehicle.
func ForVin(id int) Scope {
	return Scope{VinID: id}
}

func (s Scope) IsVin() bool {
	return s.VinID != 0
}

// DefaultTab is reminder for the dashboard and pickup for a vehicle.
func (s Scope) DefaultTab() Tab {
	if s.IsVin() {
		return Pickup
	}
	return Reminder
}

// Lister is the slice of the API client a Controller needs.
type Lister interface {
	Outbound(ctx context.Context, endpoint, date string) (api.MessagePage, api.Result)
	VinHistory(ctx context.Context, vinID int, kind, date string) (api.MessagePage, api.Result)
}

// Page is what a load produces.
type Page struct {
	Tab         Tab
	Scope       Scope
	DateFilter  string
	Messages    []shop.OutboundMessage
	Total       int
	// VehicleInfo and VinString describe the vehicle in VIN scope.
	VehicleInfo string
	VinString   string
	// Ticket is the generation this page was loaded for.
	Ticket      uint64
}

// Controller owns the tab state of one view.
type Controller struct {
	client Lister
	scope  Scope
	loc    *time.Location

	mu         sync.Mutex
	tab        Tab
	dateFilter string
	gen        uint64
}

// New returns a controller on the scope's default tab with no date filter.
func New(client Lister, scope Scope, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		client: client,
		scope:  scope,
		loc:    loc,
		tab:    scope.DefaultTab(),
	}
}

func (c *Controller) Scope() Scope {
	return c.scope
}

// Current returns the highlighted tab.
func (c *Controller) Current() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// DateFilter returns the YYYY-MM-DD filter, or "" for all time.
func (c *Controller) DateFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dateFilter
}

// SetDateFilter validates and stores a filter. "" clears it.
func (c *Controller) SetDateFilter(date string) error {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, _, err := timeutil.LocalDateFromYMD(date, c.loc); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.dateFilter = date
	c.mu.Unlock()
	return nil
}

// Select highlights tab without loading it. Callers follow with Begin and
// Fetch.
func (c *Controller) Select(tab Tab) {
	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()
}

// Switch highlights tab and loads it.
func (c *Controller) Switch(ctx context.Context, tab Tab) (Page, api.Result, error) {
	c.Select(tab)
	return c.Reload(ctx)
}

// Reload fetches the current tab again. A Page whose ticket has been
// superseded comes back with ErrStale and must not be rendered.
func (c *Controller) Reload(ctx context.Context) (Page, api.Result, error) {
	ticket, tab, date := c.Begin()
	page, res := c.Fetch(ctx, ticket, tab, date)
	if !c.Latest(ticket) {
		return Page{}, res, ErrStale
	}
	return page, res, nil
}

// Begin issues a new generation ticket and snapshots the tab state. It is
// split from Fetch so callers running the request elsewhere, such as a UI
// command, can check the ticket on delivery.
func (c *Controller) Begin() (ticket uint64, tab Tab, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen, c.tab, c.dateFilter
}

// Latest reports whether ticket is still the newest one issued.
func (c *Controller) Latest(ticket uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ticket == c.gen
}

// Fetch performs the request for one ticket without touching controller state.
func (c *Controller) Fetch(ctx context.Context, ticket uint64, tab Tab, date string) (Page, api.Result) {
	var (
		mp  api.MessagePage
		res api.Result
	)
	if c.scope.IsVin() {
		mp, res = c.client.VinHistory(ctx, c.scope.VinID, vinEndpoint(tab), serverDate(tab, date))
	} else {
		mp, res = c.client.Outbound(ctx, masterEndpoint(tab), serverDate(tab, date))
	}
	page := Page{Tab: tab, Scope: c.scope, DateFilter: date, Ticket: ticket}
	if !res.OK {
		return page, res
	}
	page.Messages = labelKind(mp.Messages, tab)
	page.Total = mp.Total
	page.VehicleInfo = mp.VehicleInfo
	page.VinString = mp.VinString
	if tab == Sent {
		page.Messages = SentReminders(mp.Messages, date, c.loc)
		page.Total = len(page.Messages)
	}
	return page, res
}

// labelKind marks rows with the kind their endpoint implies. The history
// rows carry no is_reminder key, so the tab is the only source of it.
func labelKind(msgs []shop.OutboundMessage, tab Tab) []shop.OutboundMessage {
	if tab == All {
		return msgs
	}
	out := slices.Clone(msgs)
	for i := range out {
		out[i].IsReminder = tab != Pickup
	}
	return out
}

func masterEndpoint(tab Tab) string {
	switch tab {
	case Pickup:
		return "pickup-messages"
	case Reminder:
		return "reminder-messages-created"
	case Sent:
		return "sent-reminders"
	default:
		return "all-outbound"
	}
}

func vinEndpoint(tab Tab) string {
	switch tab {
	case Pickup:
		return "pickup-history"
	case Reminder, Sent:
		return "reminder-history"
	default:
		return "history"
	}
}

// The sent filter compares sent_at locally, so the backend must not also
// filter on its own notion of the date.
func serverDate(tab Tab, date string) string {
	if tab == Sent {
		return ""
	}
	return date
}

// SentReminders keeps messages whose status is sent. The rows come from a
// reminder endpoint already. With a date, only those whose sent_at falls on
// that local calendar day are kept.
func SentReminders(msgs []shop.OutboundMessage, date string, loc *time.Location) []shop.OutboundMessage {
	var day time.Time
	if date != "" {
		d, ok, err := timeutil.LocalDateFromYMD(date, loc)
		if err == nil && ok {
			day = d
		}
	}
	out := make([]shop.OutboundMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Status.Normalize() != shop.Sent {
			continue
		}
		if !day.IsZero() {
			if m.SentAt.IsZero() || !timeutil.SameLocalDay(m.SentAt.Time, day, loc) {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
