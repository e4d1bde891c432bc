package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/bookingsql"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/sqlite"
)

// BookingRepository implements port.BookingStore on SQLite.
// Times are stored as Unix milliseconds and read back in UTC.
type BookingRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sqlite.DB, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a booking and assigns its ID
func (r *BookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx, `
		INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		booking.Start.UnixMilli(),
		booking.End.UnixMilli(),
		booking.ItemID,
		booking.BookerID,
		string(booking.Status),
		booking.CreatedAt.UnixMilli(),
	)
	if err != nil {
		r.logger.Error("Failed to create booking", zap.Int64("item_id", booking.ItemID), zap.Error(err))
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	booking.ID = id
	return nil
}

// FindByID returns (nil, nil) when the booking does not exist
func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	row := r.db.Executor(ctx).QueryRowContext(ctx,
		`SELECT `+bookingsql.Columns+` FROM bookings WHERE id = ?`, id)

	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get booking by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// Query lists bookings matching q, newest start first
func (r *BookingRepository) Query(ctx context.Context, q port.BookingQuery) ([]*entity.Booking, error) {
	query, args, err := bookingsql.Select(q, bookingsql.SQLite)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// CompareAndSetStatus updates the status only while it still equals from
func (r *BookingRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error) {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		r.logger.Error("Failed to update booking status", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows == 1, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s rowScanner) (*entity.Booking, error) {
	var (
		b                     entity.Booking
		start, end, createdAt int64
		status                string
	)
	if err := s.Scan(&b.ID, &start, &end, &b.ItemID, &b.BookerID, &status, &createdAt); err != nil {
		return nil, err
	}
	b.Start = time.UnixMilli(start).UTC()
	b.End = time.UnixMilli(end).UTC()
	b.CreatedAt = time.UnixMilli(createdAt).UTC()
	b.Status = entity.BookingStatus(status)
	return &b, nil
}

var _ port.BookingStore = (*BookingRepository)(nil)
