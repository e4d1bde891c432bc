package entity

import "time"

// TimePrecision is the resolution booking times are kept at. The SQLite store
// persists Unix milliseconds, so the clock reading used for listings and the
// times of new bookings are truncated to it; both sides of every time
// comparison then carry the same resolution.
const TimePrecision = time.Millisecond

// Booking is a request by a user to use someone else's item for a time window
type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	ItemID    int64         `json:"itemId"`
	BookerID  int64         `json:"bookerId"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewBooking builds an unsaved booking; new bookings always start WAITING
func NewBooking(start, end time.Time, itemID, bookerID int64, now time.Time) *Booking {
	return &Booking{
		Start:     start.Truncate(TimePrecision),
		End:       end.Truncate(TimePrecision),
		ItemID:    itemID,
		BookerID:  bookerID,
		Status:    StatusWaiting,
		CreatedAt: now.Truncate(TimePrecision),
	}
}

// IsWaiting reports whether the owner has not decided yet
func (b *Booking) IsWaiting() bool {
	return b.Status == StatusWaiting
}

// BookingRef identifies a booking inside an item view
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// RefOf returns nil for a nil booking
func RefOf(b *Booking) *BookingRef {
	if b == nil {
		return nil
	}
	return &BookingRef{ID: b.ID, BookerID: b.BookerID}
}
