package shop

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// OilTypes accepted by the backend.
var OilTypes = []string{
	"synthetic",
	"synthetic-blend",
	"full synthetic",
	"high-mileage synthetic-blend",
	"high-mileage full-synthetic",
}

// Viscosities accepted by the backend.
var Viscosities = []string{"0W-20", "5W-20", "5W-30", "10W-30", "15W-40"}

// MinNextServiceMileage is the lowest next-service mileage the backend takes.
const MinNextServiceMileage = 2999

var ErrInvalid = errors.New("shop: invalid request")

// NewVin is the body of POST /vin/.
type NewVin struct {
	Vin   string `json:"vin"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Trim  string `json:"trim,omitempty"`
	Plate string `json:"plate,omitempty"`
}

// Validate checks the VIN is exactly 17 characters and normalizes case.
func (v *NewVin) Validate() error {
	v.Vin = strings.ToUpper(strings.TrimSpace(v.Vin))
	if len(v.Vin) != 17 {
		return fmt.Errorf("%w: VIN must be 17 characters, got %d", ErrInvalid, len(v.Vin))
	}
	if v.Make == "" || v.Model == "" || v.Year == 0 {
		return fmt.Errorf("%w: make, model and year are required", ErrInvalid)
	}
	return nil
}

// NewServiceRecord is the body of POST /service-record/.
type NewServiceRecord struct {
	VinID                 int    `json:"vin_id"`
	ServiceDate           *Date  `json:"service_date,omitempty"`
	OilType               string `json:"oil_type"`
	OilViscosity          string `json:"oil_viscosity"`
	MileageAtService      int    `json:"mileage_at_service"`
	NextServiceMileageDue int    `json:"next_service_mileage_due"`
	NextServiceDateDue    Date   `json:"next_service_date_due"`
	Notes                 string `json:"notes,omitempty"`
}

// Validate mirrors the backend rules so bad input fails before a round trip.
// today is the viewer's current local date.
func (r *NewServiceRecord) Validate(today time.Time) error {
	r.OilType = strings.ToLower(strings.TrimSpace(r.OilType))
	if !contains(OilTypes, r.OilType) {
		return fmt.Errorf("%w: oil type %q must be one of %s", ErrInvalid, r.OilType, strings.Join(sorted(OilTypes), ", "))
	}
	r.OilViscosity = strings.ToUpper(strings.TrimSpace(r.OilViscosity))
	if !contains(Viscosities, r.OilViscosity) {
		return fmt.Errorf("%w: oil viscosity %q must be one of %s", ErrInvalid, r.OilViscosity, strings.Join(Viscosities, ", "))
	}
	if r.NextServiceMileageDue < MinNextServiceMileage {
		return fmt.Errorf("%w: next service mileage must be at least %d", ErrInvalid, MinNextServiceMileage)
	}
	if r.NextServiceMileageDue <= r.MileageAtService {
		return fmt.Errorf("%w: next service mileage must be greater than mileage at service", ErrInvalid)
	}
	if r.NextServiceDateDue.IsZero() {
		return fmt.Errorf("%w: next service date is required", ErrInvalid)
	}
	due := r.NextServiceDateDue.Local(today.Location())
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	if !due.After(midnight) {
		return fmt.Errorf("%w: next service date must be in the future", ErrInvalid)
	}
	return nil
}

// NewContact is the body of POST /contacts/.
type NewContact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

// Validate requires a name and phone number.
func (c *NewContact) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" || c.PhoneNumber == "" {
		return fmt.Errorf("%w: name and phone number are required", ErrInvalid)
	}
	return nil
}

// SendRequest is the body of POST /messages/send.
type SendRequest struct {
	ServiceRecordID         int    `json:"service_record_id"`
	ContactID               int    `json:"contact_id"`
	ImmediateMessageContent string `json:"immediate_message_content"`
}

// SendResult is the response of POST /messages/send.
type SendResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	SMSSent           bool   `json:"sms_sent"`
	ReminderScheduled bool   `json:"reminder_scheduled"`
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func sorted(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}
