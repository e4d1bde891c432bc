package entity

// BookingFilter classifies bookings relative to the current time for listings
type BookingFilter string

const (
	FilterAll      BookingFilter = "ALL"
	FilterCurrent  BookingFilter = "CURRENT"
	FilterPast     BookingFilter = "PAST"
	FilterFuture   BookingFilter = "FUTURE"
	FilterWaiting  BookingFilter = "WAITING"
	FilterRejected BookingFilter = "REJECTED"
)

// UnknownStateError is returned when a listing filter name is not recognised
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return "Unknown state: " + e.State
}

// ParseBookingFilter parses a filter name; the empty string means ALL.
// Names are case sensitive.
func ParseBookingFilter(s string) (BookingFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := BookingFilter(s); f {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return f, nil
	default:
		return "", &UnknownStateError{State: s}
	}
}

func (f BookingFilter) String() string {
	return string(f)
}
