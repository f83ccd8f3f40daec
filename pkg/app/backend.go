package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/store"
)

// Backend is the API client with every mutating call recorded in the
// journal. Reads pass straight through to the embedded client.
type Backend struct {
	*api.Client
	journal store.Journal
	log     *slog.Logger
	now     func() time.Time
}

func NewBackend(client *api.Client, journal store.Journal, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{Client: client, journal: journal, log: logger, now: time.Now}
}

// Record appends one entry. A journal failure is logged, never returned:
// the remote call already happened.
func (b *Backend) Record(action store.Action, subject string, res api.Result) {
	if b.journal == nil {
		return
	}
	r := &store.Record{
		At:      b.now(),
		Action:  action,
		Subject: subject,
		OK:      res.OK,
	}
	if !res.OK {
		r.Detail = res.Detail()
	}
	if err := b.journal.Append(r); err != nil {
		b.log.Warn("journal append failed", "action", action, "err", err)
	}
}

func (b *Backend) CreateVin(ctx context.Context, in shop.NewVin) (shop.Vin, api.Result) {
	v, res := b.Client.CreateVin(ctx, in)
	b.Record(store.ActionCreateVin, "vin "+in.Vin, res)
	return v, res
}

func (b *Backend) CreateServiceRecord(ctx context.Context, in shop.NewServiceRecord) (shop.ServiceRecord, api.Result) {
	sr, res := b.Client.CreateServiceRecord(ctx, in)
	subject := fmt.Sprintf("vin %d", in.VinID)
	if res.OK {
		subject = fmt.Sprintf("service record %d / vin %d", sr.ID, in.VinID)
	}
	b.Record(store.ActionCreateRecord, subject, res)
	return sr, res
}

func (b *Backend) CreateContact(ctx context.Context, in shop.NewContact) (shop.Contact, api.Result) {
	c, res := b.Client.CreateContact(ctx, in)
	b.Record(store.ActionCreateContact, in.Name+" "+in.PhoneNumber, res)
	return c, res
}

func (b *Backend) LinkContact(ctx context.Context, contactID, vinID int) api.Result {
	res := b.Client.LinkContact(ctx, contactID, vinID)
	b.Record(store.ActionLink, fmt.Sprintf("contact %d -> vin %d", contactID, vinID), res)
	return res
}

func (b *Backend) SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, api.Result) {
	out, res := b.Client.SendPickup(ctx, in)
	b.Record(store.ActionSend, fmt.Sprintf("service record %d / contact %d", in.ServiceRecordID, in.ContactID), res)
	return out, res
}

func (b *Backend) CancelMessage(ctx context.Context, id int) api.Result {
	res := b.Client.CancelMessage(ctx, id)
	b.Record(store.ActionCancel, fmt.Sprintf("message %d", id), res)
	return res
}

func (b *Backend) MarkInboundRead(ctx context.Context) api.Result {
	res := b.Client.MarkInboundRead(ctx)
	b.Record(store.ActionMarkRead, "inbound", res)
	return res
}
