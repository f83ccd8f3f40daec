// Package shop holds the transient copies of backend entities the client
// renders. The backend owns and persists all of them.
package shop

import (
	"fmt"
	"strings"
)

// OutboundMessage is a pickup or reminder SMS as listed by the backend.
type OutboundMessage struct {
	ID             int       `json:"id"`
	ContactName    string    `json:"contact_name"`
	ContactPhone   string    `json:"contact_phone"`
	VehicleInfo    string    `json:"vehicle_info,omitempty"`
	VinString      string    `json:"vin_string,omitempty"`
	MessageContent string    `json:"message_content"`
	IsReminder     bool      `json:"is_reminder"`
	Status         Status    `json:"status"`
	ScheduledTime  Timestamp `json:"scheduled_time"`
	SentAt         Timestamp `json:"sent_at"`
	CreatedAt      Timestamp `json:"created_at"`
}

// Cancelable reports whether the message may still be canceled. Only the
// exact wire value "pending" qualifies; display folding does not apply.
func (m *OutboundMessage) Cancelable() bool {
	return m.Status == Pending
}

// Kind is "Reminder" or "Pickup". Listings that omit is_reminder have it set
// from the endpoint they came from.
func (m *OutboundMessage) Kind() string {
	if m.IsReminder {
		return "Reminder"
	}
	return "Pickup"
}

// InboundMessage is an SMS received from a customer.
type InboundMessage struct {
	ContactName string    `json:"contact_name"`
	FromNumber  string    `json:"from_number"`
	Body        string    `json:"body"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Sender returns the contact name, or "Unknown" when the number is unmatched.
func (m *InboundMessage) Sender() string {
	if strings.TrimSpace(m.ContactName) == "" {
		return "Unknown"
	}
	return m.ContactName
}

// Contact is a person that can be notified about a vehicle.
type Contact struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

func (c Contact) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.PhoneNumber)
}

// Vin is a vehicle profile.
type Vin struct {
	ID             int             `json:"id"`
	Vin            string          `json:"vin"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	Trim           string          `json:"trim,omitempty"`
	Plate          string          `json:"plate,omitempty"`
	Contacts       []Contact       `json:"contacts,omitempty"`
	ServiceRecords []ServiceRecord `json:"service_records,omitempty"`
}

// Label is "year make model".
func (v *Vin) Label() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model))
}

// Last6 returns the last six characters of the VIN.
func (v *Vin) Last6() string {
	if len(v.Vin) <= 6 {
		return v.Vin
	}
	return v.Vin[len(v.Vin)-6:]
}

// ServiceRecord is one oil service performed on a vehicle.
type ServiceRecord struct {
	ID                    int    `json:"id"`
	Vin                   *Vin   `json:"vin,omitempty"`
	ServiceDate           Date   `json:"service_date"`
	MileageAtService      int    `json:"mileage_at_service"`
	OilType               string `json:"oil_type"`
	OilViscosity          string `json:"oil_viscosity"`
	NextServiceDateDue    Date   `json:"next_service_date_due"`
	NextServiceMileageDue int    `json:"next_service_mileage_due"`
	Notes                 string `json:"notes,omitempty"`
}

// OilLabel renders the oil type with underscores replaced by spaces.
func (r *ServiceRecord) OilLabel() string {
	return strings.ReplaceAll(r.OilType, "_", " ")
}

// MostRecent returns the record with the latest service date. Ties keep the
// earliest record in the slice. It returns nil for an empty slice.
func MostRecent(records []ServiceRecord) *ServiceRecord {
	var latest *ServiceRecord
	for i := range records {
		r := &records[i]
		if latest == nil || r.ServiceDate.After(latest.ServiceDate) {
			latest = r
		}
	}
	return latest
}
