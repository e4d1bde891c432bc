package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/garyjia/shareit/internal/application/dispatcher"
	"github.com/garyjia/shareit/internal/domain/event"
)

// SubscriberName is the dispatcher handler name used by the publisher
const SubscriberName = "kafka-publisher"

// Handle publishes one event. The message key is the booking ID.
func (p *Producer) Handle(ctx context.Context, evt *event.Event) error {
	env, err := NewEnvelope(evt)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	key := []byte(strconv.FormatInt(evt.BookingID, 10))
	return p.Publish(ctx, key, value,
		kafka.Header{Key: "event_type", Value: []byte(env.EventType)},
		kafka.Header{Key: "event_id", Value: []byte(env.EventID)},
	)
}

// Subscribe registers the producer for every booking lifecycle event
func Subscribe(d dispatcher.Dispatcher, p *Producer) {
	d.SubscribeNamed(SubscriberName, p.Handle,
		event.TypeBookingCreated,
		event.TypeBookingApproved,
		event.TypeBookingRejected,
	)
}
