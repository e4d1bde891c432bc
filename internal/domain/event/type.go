package event

// Type identifies the type of domain event
type Type string

const (
	TypeBookingCreated  Type = "booking.created"
	TypeBookingApproved Type = "booking.approved"
	TypeBookingRejected Type = "booking.rejected"
)

// BookingTypes lists every booking lifecycle event
var BookingTypes = []Type{TypeBookingCreated, TypeBookingApproved, TypeBookingRejected}

func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeBookingCreated, TypeBookingApproved, TypeBookingRejected:
		return true
	default:
		return false
	}
}
