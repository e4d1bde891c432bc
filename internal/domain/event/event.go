package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/shareit/internal/domain/entity"
)

// Event represents a booking lifecycle event
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	BookingID     int64                  `json:"booking_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates an event with a fresh ID that starts its own correlation chain
func NewEvent(eventType Type, bookingID int64, payload map[string]interface{}) *Event {
	id := uuid.NewString()
	return &Event{
		ID:            id,
		Type:          eventType,
		BookingID:     bookingID,
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
		CorrelationID: id,
	}
}

// FromBooking snapshots a booking into an event; actorID is the user who caused it
func FromBooking(eventType Type, b *entity.Booking, actorID int64) *Event {
	return NewEvent(eventType, b.ID, map[string]interface{}{
		"item_id":   b.ItemID,
		"booker_id": b.BookerID,
		"actor_id":  actorID,
		"status":    string(b.Status),
		"start":     b.Start.UTC().Format(time.RFC3339),
		"end":       b.End.UTC().Format(time.RFC3339),
	})
}
