package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/bookingsql"
)

// BookingRepository implements port.BookingStore on PostgreSQL
type BookingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

func (r *BookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	err := r.db.querier(ctx).QueryRow(ctx, `
		INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.ItemID,
		booking.BookerID,
		string(booking.Status),
		booking.CreatedAt.UTC(),
	).Scan(&booking.ID)
	if err != nil {
		r.logger.Error("Failed to create booking", zap.Int64("item_id", booking.ItemID), zap.Error(err))
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	row := r.db.querier(ctx).QueryRow(ctx,
		`SELECT `+bookingsql.Columns+` FROM bookings WHERE id = $1`, id)

	booking, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get booking by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (r *BookingRepository) Query(ctx context.Context, q port.BookingQuery) ([]*entity.Booking, error) {
	query, args, err := bookingsql.Select(q, bookingsql.Postgres)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
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

// CompareAndSetStatus relies on the row lock taken by UPDATE: a concurrent
// decision waits, re-checks the status predicate and affects no row.
func (r *BookingRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error) {
	tag, err := r.db.querier(ctx).Exec(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from),
	)
	if err != nil {
		r.logger.Error("Failed to update booking status", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		b      entity.Booking
		status string
	)
	if err := row.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &status, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.Status = entity.BookingStatus(status)
	return &b, nil
}

var _ port.BookingStore = (*BookingRepository)(nil)
