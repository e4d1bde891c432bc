package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/access"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// BookingService runs the booking workflow: creation, owner decisions,
// access-checked reads and time-classified listings.
type BookingService interface {
	Create(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*entity.Booking, error)
	Approve(ctx context.Context, approved bool, bookingID, ownerID int64) (*entity.Booking, error)
	GetByID(ctx context.Context, bookingID, callerID int64) (*entity.Booking, error)
	ListForBooker(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error)
	ListForOwner(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error)
}

type bookingServiceImpl struct {
	users     port.UserDirectory
	items     port.ItemCatalog
	bookings  port.BookingStore
	txManager port.TransactionManager
	clock     port.Clock
	logger    Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	users port.UserDirectory,
	items port.ItemCatalog,
	bookings port.BookingStore,
	txManager port.TransactionManager,
	clock port.Clock,
	logger Logger,
) BookingService {
	return &bookingServiceImpl{
		users:     users,
		items:     items,
		bookings:  bookings,
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

// Create registers a WAITING booking. Start and end are expected to be
// validated by the caller; overlapping bookings are not rejected.
func (s *bookingServiceImpl) Create(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*entity.Booking, error) {
	var booking *entity.Booking

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		item, err := s.items.FindItem(txCtx, itemID)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		if !item.Available {
			return fmt.Errorf("%w: item %d", ErrItemUnavailable, itemID)
		}

		booker, err := s.users.FindUser(txCtx, bookerID)
		if err != nil {
			return fmt.Errorf("find booker: %w", err)
		}
		if booker == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, bookerID)
		}
		if !access.CanBook(bookerID, item).Allowed() {
			return fmt.Errorf("%w: item %d for user %d", ErrNotFound, itemID, bookerID)
		}

		booking = entity.NewBooking(start, end, itemID, bookerID, s.clock.Now())
		if err := s.bookings.Save(txCtx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", err, "item_id", itemID, "booker_id", bookerID)
		return nil, err
	}

	s.logger.Info("Booking created", "booking_id", booking.ID, "item_id", itemID, "booker_id", bookerID)
	return booking, nil
}

// Approve applies the owner's decision. The status change is a single
// compare-and-set, so of two concurrent decisions exactly one wins.
func (s *bookingServiceImpl) Approve(ctx context.Context, approved bool, bookingID, ownerID int64) (*entity.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Failed to find booking", "error", err, "booking_id", bookingID)
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}

	itemOwner, err := s.itemOwner(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if !access.CanDecide(ownerID, itemOwner).Allowed() {
		return nil, fmt.Errorf("%w: booking %d for owner %d", ErrNotFound, bookingID, ownerID)
	}

	if !booking.IsWaiting() {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrAlreadyApproved, bookingID, booking.Status)
	}

	target, err := workflow.Decide(ctx, workflow.State(booking.Status), approved)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: booking %d is %s", ErrAlreadyApproved, bookingID, booking.Status)
		}
		return nil, fmt.Errorf("decide booking %d: %w", bookingID, err)
	}

	to := entity.BookingStatus(target)
	ok, err := s.bookings.CompareAndSetStatus(ctx, bookingID, booking.Status, to)
	if err != nil {
		s.logger.Error("Failed to update booking status", "error", err, "booking_id", bookingID)
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking %d was decided concurrently", ErrAlreadyApproved, bookingID)
	}

	booking.Status = to
	s.logger.Info("Booking decided", "booking_id", bookingID, "owner_id", ownerID, "status", to)
	return booking, nil
}

func (s *bookingServiceImpl) GetByID(ctx context.Context, bookingID, callerID int64) (*entity.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Failed to find booking", "error", err, "booking_id", bookingID)
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}

	itemOwner, err := s.itemOwner(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(callerID, booking, itemOwner).Allowed() {
		return nil, fmt.Errorf("%w: booking %d for user %d", ErrAccessDenied, bookingID, callerID)
	}

	return booking, nil
}

func (s *bookingServiceImpl) ListForBooker(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error) {
	if err := validatePage(offset, size); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	q := port.BookingQuery{BookerID: userID, Offset: offset, Limit: size}
	return s.list(ctx, q, bookerView, filter)
}

// ListForOwner lists bookings on the user's items; a user without items gets
// an empty list without the store being queried.
func (s *bookingServiceImpl) ListForOwner(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error) {
	if err := validatePage(offset, size); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	itemIDs, err := s.users.ItemsOwnedBy(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list owned items", "error", err, "user_id", userID)
		return nil, fmt.Errorf("list owned items: %w", err)
	}
	if len(itemIDs) == 0 {
		return []*entity.Booking{}, nil
	}

	q := port.BookingQuery{ItemIDs: itemIDs, Offset: offset, Limit: size}
	return s.list(ctx, q, ownerView, filter)
}

func (s *bookingServiceImpl) list(ctx context.Context, q port.BookingQuery, view listView, filter entity.BookingFilter) ([]*entity.Booking, error) {
	q, err := filterQuery(q, view, filter, s.now())
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.Query(ctx, q)
	if err != nil {
		s.logger.Error("Failed to query bookings", "error", err, "view", view.String(), "filter", filter)
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*entity.Booking{}
	}
	return bookings, nil
}

// now reads the clock at the resolution bookings are stored with
func (s *bookingServiceImpl) now() time.Time {
	return s.clock.Now().Truncate(entity.TimePrecision)
}

func (s *bookingServiceImpl) requireUser(ctx context.Context, userID int64) error {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to find user", "error", err, "user_id", userID)
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

func (s *bookingServiceImpl) itemOwner(ctx context.Context, itemID int64) (int64, error) {
	item, err := s.items.FindItem(ctx, itemID)
	if err != nil {
		s.logger.Error("Failed to find item", "error", err, "item_id", itemID)
		return 0, fmt.Errorf("find item: %w", err)
	}
	if item == nil {
		return 0, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	return item.OwnerID, nil
}

// logFailure logs only unexpected failures; outcomes the caller caused are
// reported through the returned error alone.
func (s *bookingServiceImpl) logFailure(msg string, err error, keysAndValues ...interface{}) {
	if isDomainError(err) {
		return
	}
	s.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrAlreadyApproved) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidArgument)
}

func validatePage(offset int64, size int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidArgument, offset)
	}
	if size < 1 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, size)
	}
	return nil
}
