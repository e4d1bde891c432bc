package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/garyjia/shareit/internal/domain/entity"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Create(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*entity.Booking, error) {
	args := m.Called(ctx, start, end, itemID, bookerID)
	b, _ := args.Get(0).(*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) Approve(ctx context.Context, approved bool, bookingID, ownerID int64) (*entity.Booking, error) {
	args := m.Called(ctx, approved, bookingID, ownerID)
	b, _ := args.Get(0).(*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) GetByID(ctx context.Context, bookingID, callerID int64) (*entity.Booking, error) {
	args := m.Called(ctx, bookingID, callerID)
	b, _ := args.Get(0).(*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) ListForBooker(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, filter, offset, size)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingService) ListForOwner(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, filter, offset, size)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) CreateUser(ctx context.Context, name, email string) (*entity.User, error) {
	args := m.Called(ctx, name, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockCatalogService) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockCatalogService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*entity.User)
	return u, args.Error(1)
}

func (m *mockCatalogService) UpdateUser(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	args := m.Called(ctx, id, patch)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockCatalogService) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogService) CreateItem(ctx context.Context, ownerID int64, item *entity.Item) (*entity.Item, error) {
	args := m.Called(ctx, ownerID, item)
	i, _ := args.Get(0).(*entity.Item)
	return i, args.Error(1)
}

func (m *mockCatalogService) GetItem(ctx context.Context, itemID, callerID int64) (*entity.ItemView, error) {
	args := m.Called(ctx, itemID, callerID)
	i, _ := args.Get(0).(*entity.ItemView)
	return i, args.Error(1)
}

func (m *mockCatalogService) ListOwnerItems(ctx context.Context, ownerID int64, offset int64, size int) ([]*entity.ItemView, error) {
	args := m.Called(ctx, ownerID, offset, size)
	i, _ := args.Get(0).([]*entity.ItemView)
	return i, args.Error(1)
}

func (m *mockCatalogService) SearchItems(ctx context.Context, text string, offset int64, size int) ([]*entity.Item, error) {
	args := m.Called(ctx, text, offset, size)
	i, _ := args.Get(0).([]*entity.Item)
	return i, args.Error(1)
}

func (m *mockCatalogService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch entity.ItemPatch) (*entity.Item, error) {
	args := m.Called(ctx, ownerID, itemID, patch)
	i, _ := args.Get(0).(*entity.Item)
	return i, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
