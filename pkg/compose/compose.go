// Package compose builds the pickup SMS and reminder preview for one contact
// and submits the pickup send.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
)

const (
	DefaultShopBlock = "Thank you for choosing Montebello Lube N' Tune - 2130 W Beverly Blvd. Mon-Sat 8-5. (323) 727-2883."
	DefaultOptOut    = "Reply STOP to unsubscribe."

	SentViaSMS       = "✅ Sent via SMS"
	SMSNotConfigured = "⚠️ SMS not configured, but reminder scheduled"
)

// ErrEmptyMessage is returned by Submit when the message text is blank.
var ErrEmptyMessage = errors.New("compose: message is empty")

// Signature is appended to every message.
type Signature struct {
	Block  string
	OptOut string
}

// DefaultSignature is the shop's address block and opt-out notice.
func DefaultSignature() Signature {
	return Signature{Block: DefaultShopBlock, OptOut: DefaultOptOut}
}

func (s Signature) String() string {
	return strings.TrimSpace(strings.TrimSpace(s.Block) + " " + strings.TrimSpace(s.OptOut))
}

// Draft is one message ready for review. Message may be edited before Submit.
type Draft struct {
	ServiceRecordID int
	Contact         shop.Contact
	VinString       string
	Message         string
	ReminderPreview string
}

// New builds a draft for contact from the service record and its vehicle.
func New(sr *shop.ServiceRecord, vin *shop.Vin, contact shop.Contact, sig Signature, loc *time.Location) Draft {
	return Draft{
		ServiceRecordID: sr.ID,
		Contact:         contact,
		VinString:       vin.Vin,
		Message:         Pickup(sr, vin, contact, sig, loc),
		ReminderPreview: ReminderPreview(sr, vin, contact, sig, loc),
	}
}

// Pickup is the immediate "your car is ready" text.
func Pickup(sr *shop.ServiceRecord, vin *shop.Vin, contact shop.Contact, sig Signature, loc *time.Location) string {
	return fmt.Sprintf("Hi %s, your %s %s is ready! %s (%s) done at %d mi. Next due: %d on %s. %s",
		contact.Name, vin.Make, vin.Model,
		oilLabel(sr), sr.OilViscosity, sr.MileageAtService,
		sr.NextServiceMileageDue, sr.NextServiceDateDue.Short(loc),
		sig)
}

// ReminderPreview shows what the scheduled reminder will say. The backend
// generates the actual reminder.
func ReminderPreview(sr *shop.ServiceRecord, vin *shop.Vin, contact shop.Contact, sig Signature, loc *time.Location) string {
	return fmt.Sprintf("Hi %s! Your %s is due soon: %d mi on %s. Last: %d with %s (%s). %s",
		contact.Name, vin.Model,
		sr.NextServiceMileageDue, sr.NextServiceDateDue.Short(loc),
		sr.MileageAtService, oilLabel(sr), sr.OilViscosity,
		sig)
}

func oilLabel(sr *shop.ServiceRecord) string {
	return strings.ReplaceAll(sr.OilType, "_", " ")
}

// Sender is the slice of the API client Submit needs.
type Sender interface {
	SendPickup(ctx context.Context, in shop.SendRequest) (shop.SendResult, api.Result)
}

// Handoff tells the caller which vehicle profile to open after a send.
type Handoff struct {
	VinString string
}

// Outcome describes a successful send.
type Outcome struct {
	SMSSent      bool
	Confirmation string
	Handoff      Handoff
}

// Confirmation is the delivery line shown after a successful send.
func Confirmation(smsSent bool) string {
	if smsSent {
		return SentViaSMS
	}
	return SMSNotConfigured
}

// Submit sends the draft. Both delivered and reminder-only responses count
// as success.
func Submit(ctx context.Context, s Sender, d Draft) (Outcome, api.Result) {
	msg := strings.TrimSpace(d.Message)
	if msg == "" {
		return Outcome{}, api.Failed(0, ErrEmptyMessage.Error())
	}
	out, res := s.SendPickup(ctx, shop.SendRequest{
		ServiceRecordID:         d.ServiceRecordID,
		ContactID:               d.Contact.ID,
		ImmediateMessageContent: msg,
	})
	if !res.OK {
		return Outcome{}, res
	}
	return Outcome{
		SMSSent:      out.SMSSent,
		Confirmation: Confirmation(out.SMSSent),
		Handoff:      Handoff{VinString: d.VinString},
	}, res
}
