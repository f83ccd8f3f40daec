package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tableflip.dev/pitstop/pkg/shop"
)

// DecodedVin is the subset of vehicle fields the decoder resolves.
type DecodedVin struct {
	Vin   string  `json:"vin"`
	Make  *string `json:"make"`
	Model *string `json:"model"`
	Year  *int    `json:"year"`
	Trim  *string `json:"trim"`
}

// MessagePage is one listing of outbound messages. The backend names the
// array differently per endpoint; all of them decode here. The per-VIN
// histories also describe the vehicle in the envelope.
type MessagePage struct {
	Messages    []shop.OutboundMessage `json:"-"`
	Total       int                    `json:"-"`
	DateFilter  string                 `json:"-"`
	VinID       int                    `json:"-"`
	VinString   string                 `json:"-"`
	VehicleInfo string                 `json:"-"`
}

func (p *MessagePage) UnmarshalJSON(b []byte) error {
	var wire struct {
		Messages        []shop.OutboundMessage `json:"messages"`
		MessageHistory  []shop.OutboundMessage `json:"message_history"`
		PickupHistory   []shop.OutboundMessage `json:"pickup_history"`
		ReminderHistory []shop.OutboundMessage `json:"reminder_history"`
		TotalMessages   *int                   `json:"total_messages"`
		DateFilter      *string                `json:"date_filter"`
		VinID           int                    `json:"vin_id"`
		VinString       string                 `json:"vin_string"`
		VehicleInfo     string                 `json:"vehicle_info"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	switch {
	case wire.Messages != nil:
		p.Messages = wire.Messages
	case wire.MessageHistory != nil:
		p.Messages = wire.MessageHistory
	case wire.PickupHistory != nil:
		p.Messages = wire.PickupHistory
	case wire.ReminderHistory != nil:
		p.Messages = wire.ReminderHistory
	default:
		p.Messages = nil
	}
	p.Total = len(p.Messages)
	if wire.TotalMessages != nil {
		p.Total = *wire.TotalMessages
	}
	p.DateFilter = ""
	if wire.DateFilter != nil {
		p.DateFilter = *wire.DateFilter
	}
	p.VinID = wire.VinID
	p.VinString = wire.VinString
	p.VehicleInfo = wire.VehicleInfo
	return nil
}

func (p MessagePage) MarshalJSON() ([]byte, error) {
	msgs := p.Messages
	if msgs == nil {
		msgs = []shop.OutboundMessage{}
	}
	var filter *string
	if p.DateFilter != "" {
		filter = &p.DateFilter
	}
	return json.Marshal(struct {
		VinID         int                    `json:"vin_id,omitempty"`
		VinString     string                 `json:"vin_string,omitempty"`
		VehicleInfo   string                 `json:"vehicle_info,omitempty"`
		Messages      []shop.OutboundMessage `json:"messages"`
		TotalMessages int                    `json:"total_messages"`
		DateFilter    *string                `json:"date_filter"`
	}{p.VinID, p.VinString, p.VehicleInfo, msgs, p.Total, filter})
}

type inboundPage struct {
	Messages []shop.InboundMessage `json:"messages"`
}

type unreadCount struct {
	UnreadCount int `json:"unread_count"`
}

type pickupSent struct {
	PickupSent bool `json:"pickup_sent"`
}

// CostLine is a count of messages and what they cost.
type CostLine struct {
	Count        int     `json:"count"`
	TotalCents   int     `json:"total_cents"`
	TotalDollars float64 `json:"total_dollars"`
}

// CostSummary is the SMS spend for one day or all time.
type CostSummary struct {
	DateFilter *string  `json:"date_filter"`
	Outbound   CostLine `json:"outbound_messages"`
	Inbound    CostLine `json:"inbound_messages"`
	Totals     struct {
		TotalMessages int     `json:"total_messages"`
		TotalCents    int     `json:"total_cents"`
		TotalDollars  float64 `json:"total_dollars"`
	} `json:"totals"`
}

// MonthCost is one row of the monthly report.
type MonthCost struct {
	Month     int       `json:"month"`
	MonthName string    `json:"month_name"`
	Outbound  MonthLine `json:"outbound"`
	Inbound   MonthLine `json:"inbound"`
	Total     MonthLine `json:"total"`
}

type MonthLine struct {
	Count   int     `json:"count"`
	Cents   int     `json:"cents"`
	Dollars float64 `json:"dollars"`
}

// MonthlyCosts is the current-year report.
type MonthlyCosts struct {
	Year   int         `json:"year"`
	Months []MonthCost `json:"months"`
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func (c *Client) GetVin(ctx context.Context, vinOrLast6 string) (shop.Vin, Result) {
	return decode[shop.Vin](c.Call(ctx, http.MethodGet, "/vin/"+url.PathEscape(vinOrLast6), nil))
}

func (c *Client) DecodeVin(ctx context.Context, vin string) (DecodedVin, Result) {
	return decode[DecodedVin](c.Call(ctx, http.MethodGet, "/vin/decode_vin/"+url.PathEscape(vin), nil))
}

func (c *Client) CreateVin(ctx context.Context, in shop.NewVin) (shop.Vin, Result) {
	return decode[shop.Vin](c.Call(ctx, http.MethodPost, "/vin/", in))
}

func (c *Client) CreateServiceRecord(ctx context.Context, in shop.NewServiceRecord) (shop.ServiceRecord, Result) {
	return decode[shop.ServiceRecord](c.Call(ctx, http.MethodPost, "/service-record/", in))
}

// GetServiceRecord returns the record with its vehicle and contacts embedded.
func (c *Client) GetServiceRecord(ctx context.Context, id int) (shop.ServiceRecord, Result) {
	return decode[shop.ServiceRecord](c.Call(ctx, http.MethodGet, fmt.Sprintf("/service-record/%d", id), nil))
}

func (c *Client) CreateContact(ctx context.Context, in shop.NewContact) (shop.Contact, Result) {
	return decode[shop.Contact](c.Call(ctx, http.MethodPost, "/contacts/", in))
}

func (c *Client) LinkContact(ctx context.Context, contactID, vinID int) Result {
	return c.Call(ctx, http.MethodPost, fmt.Sprintf("/contacts/%d/link_to_vin/%d", contactID, vinID), nil)
}

// SearchContacts matches contacts whose phone number contains q.
func (c *Client) SearchContacts(ctx context.Context, q string) ([]shop.Contact, Result) {
	return decode[[]shop.Contact](c.Call(ctx, http.MethodGet, "/contacts/search"+query("phone_number", q), nil))
}

func (c *Client) SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, Result) {
	return decode[shop.SendResult](c.Call(ctx, http.MethodPost, "/messages/send", in))
}

func (c *Client) CancelMessage(ctx context.Context, id int) Result {
	return c.Call(ctx, http.MethodPost, fmt.Sprintf("/messages/message/%d/cancel", id), nil)
}

// Outbound lists messages from a master endpoint such as "pickup-messages".
// An empty date omits the filter entirely.
func (c *Client) Outbound(ctx context.Context, endpoint, date string) (MessagePage, Result) {
	return decode[MessagePage](c.Call(ctx, http.MethodGet, "/messages/"+endpoint+query("date", date), nil))
}

// VinHistory lists messages for one vehicle. kind is "history",
// "pickup-history" or "reminder-history".
func (c *Client) VinHistory(ctx context.Context, vinID int, kind, date string) (MessagePage, Result) {
	return decode[MessagePage](c.Call(ctx, http.MethodGet, fmt.Sprintf("/messages/vin/%d/%s", vinID, kind)+query("date", date), nil))
}

func (c *Client) Inbound(ctx context.Context) ([]shop.InboundMessage, Result) {
	page, res := decode[inboundPage](c.Call(ctx, http.MethodGet, "/messages/inbound", nil))
	return page.Messages, res
}

func (c *Client) MarkInboundRead(ctx context.Context) Result {
	return c.Call(ctx, http.MethodPost, "/messages/inbound/mark-as-read", nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, Result) {
	n, res := decode[unreadCount](c.Call(ctx, http.MethodGet, "/messages/inbound/unread-count", nil))
	return n.UnreadCount, res
}

// PickupSent reports whether a pickup message already went out for the record.
func (c *Client) PickupSent(ctx context.Context, serviceRecordID int) (bool, Result) {
	p, res := decode[pickupSent](c.Call(ctx, http.MethodGet, fmt.Sprintf("/messages/service-record/%d/pickup-sent", serviceRecordID), nil))
	return p.PickupSent, res
}

func (c *Client) CostSummary(ctx context.Context, date string) (CostSummary, Result) {
	env, res := decode[envelope[CostSummary]](c.Call(ctx, http.MethodGet, "/costs/summary"+query("date_filter", date), nil))
	return env.Data, res
}

func (c *Client) CostMonthly(ctx context.Context) (MonthlyCosts, Result) {
	env, res := decode[envelope[MonthlyCosts]](c.Call(ctx, http.MethodGet, "/costs/monthly", nil))
	return env.Data, res
}
