package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/shareit/internal/domain/event"
)

const (
	envelopeVersion = 1
	producerName    = "shareit"
)

// Envelope is the JSON document written as the message value
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	BookingID     int64           `json:"booking_id"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps an event. Events without an ID get a fresh one.
func NewEnvelope(evt *event.Event) (*Envelope, error) {
	if !evt.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", evt.Type)
	}
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	id := evt.ID
	if id == "" {
		id = uuid.NewString()
	}
	correlationID := evt.CorrelationID
	if correlationID == "" {
		correlationID = id
	}

	return &Envelope{
		EventID:       id,
		EventType:     evt.Type.String(),
		EventVersion:  envelopeVersion,
		OccurredAt:    evt.Timestamp.UTC(),
		Producer:      producerName,
		CorrelationID: correlationID,
		BookingID:     evt.BookingID,
		Payload:       payload,
	}, nil
}
