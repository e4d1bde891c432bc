package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/access"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/pkg/utils"
)

// CatalogService maintains the users and items the booking workflow reads
type CatalogService interface {
	CreateUser(ctx context.Context, name, email string) (*entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateUser(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, ownerID int64, item *entity.Item) (*entity.Item, error)
	GetItem(ctx context.Context, itemID, callerID int64) (*entity.ItemView, error)
	ListOwnerItems(ctx context.Context, ownerID int64, offset int64, size int) ([]*entity.ItemView, error)
	SearchItems(ctx context.Context, text string, offset int64, size int) ([]*entity.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch entity.ItemPatch) (*entity.Item, error)
}

type catalogServiceImpl struct {
	users     port.UserRepository
	items     port.ItemRepository
	bookings  port.BookingStore
	txManager port.TransactionManager
	clock     port.Clock
	logger    Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	users port.UserRepository,
	items port.ItemRepository,
	bookings port.BookingStore,
	txManager port.TransactionManager,
	clock port.Clock,
	logger Logger,
) CatalogService {
	return &catalogServiceImpl{
		users:     users,
		items:     items,
		bookings:  bookings,
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

func (s *catalogServiceImpl) CreateUser(ctx context.Context, name, email string) (*entity.User, error) {
	name = utils.SanitizeString(strings.TrimSpace(name))
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	user := &entity.User{Name: name, Email: email}
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requireFreeEmail(txCtx, email, 0); err != nil {
			return err
		}
		if err := s.users.Create(txCtx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("Failed to create user", "error", err, "email", email)
		}
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *catalogServiceImpl) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.users.FindUser(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get user", "error", err, "user_id", id)
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}

func (s *catalogServiceImpl) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*entity.User{}
	}
	return users, nil
}

// UpdateUser applies a partial update. Keeping one's own e-mail is not a conflict.
func (s *catalogServiceImpl) UpdateUser(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	if patch.Name != nil {
		name := utils.SanitizeString(strings.TrimSpace(*patch.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidArgument)
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := utils.ValidateEmail(email); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		patch.Email = &email
	}

	var user *entity.User
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.users.FindUser(txCtx, id)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if found == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		if patch.Email != nil && *patch.Email != found.Email {
			if err := s.requireFreeEmail(txCtx, *patch.Email, id); err != nil {
				return err
			}
		}

		patch.Apply(found)
		if err := s.users.Update(txCtx, found); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		user = found
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("Failed to update user", "error", err, "user_id", id)
		}
		return nil, err
	}

	s.logger.Info("User updated", "user_id", id)
	return user, nil
}

// DeleteUser removes a user that neither owns items nor has made bookings
func (s *catalogServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		owned, err := s.users.ItemsOwnedBy(txCtx, id)
		if err != nil {
			return fmt.Errorf("list owned items: %w", err)
		}
		if len(owned) > 0 {
			return fmt.Errorf("%w: user %d owns %d items", ErrConflict, id, len(owned))
		}

		booked, err := s.bookings.Query(txCtx, port.BookingQuery{BookerID: id, Limit: 1})
		if err != nil {
			return fmt.Errorf("query bookings: %w", err)
		}
		if len(booked) > 0 {
			return fmt.Errorf("%w: user %d has bookings", ErrConflict, id)
		}

		deleted, err := s.users.Delete(txCtx, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if !deleted {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("Failed to delete user", "error", err, "user_id", id)
		}
		return err
	}

	s.logger.Info("User deleted", "user_id", id)
	return nil
}

func (s *catalogServiceImpl) requireFreeEmail(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
	}
	return nil
}

func (s *catalogServiceImpl) CreateItem(ctx context.Context, ownerID int64, item *entity.Item) (*entity.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(item.Description) == "" {
		return nil, fmt.Errorf("%w: item description is required", ErrInvalidArgument)
	}

	owner, err := s.users.FindUser(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to get user", "error", err, "user_id", ownerID)
		return nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
	}

	item.OwnerID = ownerID
	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create item", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("Item created", "item_id", item.ID, "owner_id", ownerID)
	return item, nil
}

// GetItem returns the item; its owner also gets the last and next bookings
func (s *catalogServiceImpl) GetItem(ctx context.Context, itemID, callerID int64) (*entity.ItemView, error) {
	item, err := s.items.FindItem(ctx, itemID)
	if err != nil {
		s.logger.Error("Failed to get item", "error", err, "item_id", itemID)
		return nil, fmt.Errorf("find item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}

	return s.view(ctx, item, callerID, s.now())
}

// ListOwnerItems pages through the owner's items with their last and next bookings
func (s *catalogServiceImpl) ListOwnerItems(ctx context.Context, ownerID int64, offset int64, size int) ([]*entity.ItemView, error) {
	if err := validatePage(offset, size); err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByOwner(ctx, ownerID, offset, size)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("list items: %w", err)
	}

	now := s.now()
	views := make([]*entity.ItemView, 0, len(items))
	for _, item := range items {
		v, err := s.view(ctx, item, ownerID, now)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// SearchItems finds available items by name or description. Blank text
// matches nothing.
func (s *catalogServiceImpl) SearchItems(ctx context.Context, text string, offset int64, size int) ([]*entity.Item, error) {
	if err := validatePage(offset, size); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []*entity.Item{}, nil
	}

	items, err := s.items.Search(ctx, text, offset, size)
	if err != nil {
		s.logger.Error("Failed to search items", "error", err, "text", text)
		return nil, fmt.Errorf("search items: %w", err)
	}
	if items == nil {
		items = []*entity.Item{}
	}
	return items, nil
}

// UpdateItem applies a partial update; anyone but the owner gets ErrNotFound
func (s *catalogServiceImpl) UpdateItem(ctx context.Context, ownerID, itemID int64, patch entity.ItemPatch) (*entity.Item, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: item name must not be blank", ErrInvalidArgument)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%w: item description must not be blank", ErrInvalidArgument)
	}

	var item *entity.Item
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.items.FindItem(txCtx, itemID)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if found == nil || !access.CanEditItem(ownerID, found).Allowed() {
			return fmt.Errorf("%w: item %d for owner %d", ErrNotFound, itemID, ownerID)
		}

		patch.Apply(found)
		if err := s.items.Update(txCtx, found); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		item = found
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("Failed to update item", "error", err, "item_id", itemID)
		}
		return nil, err
	}

	s.logger.Info("Item updated", "item_id", itemID)
	return item, nil
}

func (s *catalogServiceImpl) now() time.Time {
	return s.clock.Now().Truncate(entity.TimePrecision)
}

func (s *catalogServiceImpl) view(ctx context.Context, item *entity.Item, callerID int64, now time.Time) (*entity.ItemView, error) {
	v := &entity.ItemView{Item: *item}
	if !access.CanSeeItemBookings(callerID, item).Allowed() {
		return v, nil
	}

	approved := []entity.BookingStatus{entity.StatusApproved}
	last, err := s.firstBooking(ctx, port.BookingQuery{
		ItemIDs:     []int64{item.ID},
		Statuses:    approved,
		StartBefore: &now,
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	next, err := s.firstBooking(ctx, port.BookingQuery{
		ItemIDs:    []int64{item.ID},
		Statuses:   approved,
		StartAfter: &now,
		Ascending:  true,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}

	v.LastBooking = entity.RefOf(last)
	v.NextBooking = entity.RefOf(next)
	return v, nil
}

func (s *catalogServiceImpl) firstBooking(ctx context.Context, q port.BookingQuery) (*entity.Booking, error) {
	bookings, err := s.bookings.Query(ctx, q)
	if err != nil {
		s.logger.Error("Failed to query item bookings", "error", err, "item_id", q.ItemIDs[0])
		return nil, fmt.Errorf("query item bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return bookings[0], nil
}
