package shop

import "strings"

// Status is the lifecycle state of an outbound message.
type Status string

const (
	Pending  Status = "pending"
	Sent     Status = "sent"
	Failed   Status = "failed"
	Canceled Status = "canceled"
)

// Normalize folds the wire value onto one of the four known states. Anything
// unrecognised styles as pending.
func (s Status) Normalize() Status {
	switch Status(strings.ToLower(strings.TrimSpace(string(s)))) {
	case Sent:
		return Sent
	case Failed:
		return Failed
	case Canceled, "cancelled":
		return Canceled
	default:
		return Pending
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s.Normalize() != Pending
}

// Label is the upper-case status text shown on a card.
func (s Status) Label() string {
	if strings.TrimSpace(string(s)) == "" {
		return strings.ToUpper(string(Pending))
	}
	return strings.ToUpper(string(s))
}

// Symbol is a single-rune marker used in compact listings.
func (s Status) Symbol() string {
	switch s.Normalize() {
	case Sent:
		return "✔"
	case Failed:
		return "✘"
	case Canceled:
		return "⦵"
	default:
		return "●"
	}
}
