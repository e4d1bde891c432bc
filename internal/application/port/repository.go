package port

import (
	"context"
	"time"

	"github.com/garyjia/shareit/internal/domain/entity"
)

// UserDirectory resolves users and the items they own.
// FindUser returns (nil, nil) when the user does not exist.
type UserDirectory interface {
	FindUser(ctx context.Context, id int64) (*entity.User, error)
	ItemsOwnedBy(ctx context.Context, userID int64) ([]int64, error)
}

// ItemCatalog resolves items. FindItem returns (nil, nil) when the item does not exist.
type ItemCatalog interface {
	FindItem(ctx context.Context, id int64) (*entity.Item, error)
}

// UserRepository adds maintenance operations to the directory
type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns every user ordered by ID
	List(ctx context.Context) ([]*entity.User, error)

	Update(ctx context.Context, user *entity.User) error

	// Delete reports false when the user does not exist
	Delete(ctx context.Context, id int64) (bool, error)
}

// ItemRepository adds maintenance operations to the catalog
type ItemRepository interface {
	ItemCatalog
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error

	// ListByOwner pages through the owner's items ordered by ID
	ListByOwner(ctx context.Context, ownerID int64, offset int64, limit int) ([]*entity.Item, error)

	// Search pages through available items whose name or description
	// contains text, ignoring case
	Search(ctx context.Context, text string, offset int64, limit int) ([]*entity.Item, error)
}

// BookingQuery is the single predicate every listing is built from.
// Zero-valued fields do not constrain the result.
//
// Exactly one scope is set: BookerID for the booker view, ItemIDs for the
// owner view. Results are ordered by start descending unless Ascending is set.
type BookingQuery struct {
	BookerID int64
	ItemIDs  []int64

	Statuses []entity.BookingStatus

	// EndBefore keeps bookings with end < *EndBefore
	EndBefore *time.Time
	// StartAfter keeps bookings with start > *StartAfter
	StartAfter *time.Time
	// StartBefore keeps bookings with start < *StartBefore
	StartBefore *time.Time
	// ActiveAt keeps bookings with start < *ActiveAt < end
	ActiveAt *time.Time

	Ascending bool

	Offset int64
	Limit  int
}

// BookingStore persists bookings
type BookingStore interface {
	// Save inserts the booking and assigns its ID
	Save(ctx context.Context, booking *entity.Booking) error

	// FindByID returns (nil, nil) when the booking does not exist
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)

	Query(ctx context.Context, q BookingQuery) ([]*entity.Booking, error)

	// CompareAndSetStatus moves the booking from one status to another in a
	// single conditional write. It reports false when the booking was not in
	// the expected status anymore.
	CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	// WithTransaction runs fn in a transaction; fn's context carries it
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
