package service

import (
	"context"
	"time"

	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/domain/event"
)

// EventPublisher accepts booking events for background delivery
type EventPublisher interface {
	DispatchAsync(ctx context.Context, evt *event.Event)
}

// publishingBookingService announces successful state changes of the wrapped service
type publishingBookingService struct {
	BookingService
	publisher EventPublisher
}

// NewPublishingBookingService wraps a BookingService so that creations and
// decisions are published after they succeed. Reads pass through untouched.
func NewPublishingBookingService(inner BookingService, publisher EventPublisher) BookingService {
	return &publishingBookingService{BookingService: inner, publisher: publisher}
}

func (s *publishingBookingService) Create(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*entity.Booking, error) {
	booking, err := s.BookingService.Create(ctx, start, end, itemID, bookerID)
	if err != nil {
		return nil, err
	}
	s.publisher.DispatchAsync(ctx, event.FromBooking(event.TypeBookingCreated, booking, bookerID))
	return booking, nil
}

func (s *publishingBookingService) Approve(ctx context.Context, approved bool, bookingID, ownerID int64) (*entity.Booking, error) {
	booking, err := s.BookingService.Approve(ctx, approved, bookingID, ownerID)
	if err != nil {
		return nil, err
	}

	eventType := event.TypeBookingRejected
	if booking.Status == entity.StatusApproved {
		eventType = event.TypeBookingApproved
	}
	s.publisher.DispatchAsync(ctx, event.FromBooking(eventType, booking, ownerID))
	return booking, nil
}
