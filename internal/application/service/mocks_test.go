package service

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/domain/event"
)

type mockUserRepo struct {
	users            map[int64]*entity.User
	ownedItems       map[int64][]int64
	findUserFunc     func(ctx context.Context, id int64) (*entity.User, error)
	itemsOwnedByFunc func(ctx context.Context, userID int64) ([]int64, error)
	createFunc       func(ctx context.Context, user *entity.User) error
	findByEmailFunc  func(ctx context.Context, email string) (*entity.User, error)
	listFunc         func(ctx context.Context) ([]*entity.User, error)
	itemsOwnedCalls  int
	updated          []*entity.User
	deleted          []int64
}

func (m *mockUserRepo) FindUser(ctx context.Context, id int64) (*entity.User, error) {
	if m.findUserFunc != nil {
		return m.findUserFunc(ctx, id)
	}
	return m.users[id], nil
}

func (m *mockUserRepo) ItemsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	m.itemsOwnedCalls++
	if m.itemsOwnedByFunc != nil {
		return m.itemsOwnedByFunc(ctx, userID)
	}
	return m.ownedItems[userID], nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = int64(len(m.users) + 1)
	if m.users == nil {
		m.users = map[int64]*entity.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	users := make([]*entity.User, 0, len(m.users))
	for id := int64(1); id < 1000 && len(users) < len(m.users); id++ {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	m.updated = append(m.updated, user)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return true, nil
}

type mockItemRepo struct {
	items        map[int64]*entity.Item
	findItemFunc func(ctx context.Context, id int64) (*entity.Item, error)
	updateFunc   func(ctx context.Context, item *entity.Item) error
	searchFunc   func(ctx context.Context, text string, offset int64, limit int) ([]*entity.Item, error)
	created      []*entity.Item
	updated      []*entity.Item
	searches     []string
}

func (m *mockItemRepo) FindItem(ctx context.Context, id int64) (*entity.Item, error) {
	if m.findItemFunc != nil {
		return m.findItemFunc(ctx, id)
	}
	if item, ok := m.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

func (m *mockItemRepo) Create(ctx context.Context, item *entity.Item) error {
	item.ID = int64(100 + len(m.created))
	m.created = append(m.created, item)
	return nil
}

func (m *mockItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, item)
	}
	m.updated = append(m.updated, item)
	return nil
}

// ListByOwner ignores paging beyond the limit
func (m *mockItemRepo) ListByOwner(ctx context.Context, ownerID int64, offset int64, limit int) ([]*entity.Item, error) {
	items := []*entity.Item{}
	for id := int64(1); id < 1000 && len(items) < limit; id++ {
		if item, ok := m.items[id]; ok && item.OwnerID == ownerID {
			cp := *item
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *mockItemRepo) Search(ctx context.Context, text string, offset int64, limit int) ([]*entity.Item, error) {
	m.searches = append(m.searches, text)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, text, offset, limit)
	}
	return nil, nil
}

type mockBookingStore struct {
	mu        sync.Mutex
	bookings  map[int64]*entity.Booking
	nextID    int64
	saveFunc  func(ctx context.Context, b *entity.Booking) error
	queryFunc func(ctx context.Context, q port.BookingQuery) ([]*entity.Booking, error)
	casFunc   func(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error)
	saved     []*entity.Booking
	queries   []port.BookingQuery
}

func (m *mockBookingStore) Save(ctx context.Context, b *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFunc != nil {
		return m.saveFunc(ctx, b)
	}
	m.nextID++
	b.ID = m.nextID
	if m.bookings == nil {
		m.bookings = map[int64]*entity.Booking{}
	}
	cp := *b
	m.bookings[b.ID] = &cp
	m.saved = append(m.saved, b)
	return nil
}

func (m *mockBookingStore) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *mockBookingStore) Query(ctx context.Context, q port.BookingQuery) ([]*entity.Booking, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.queryFunc != nil {
		return m.queryFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockBookingStore) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error) {
	if m.casFunc != nil {
		return m.casFunc(ctx, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

type mockPublisher struct {
	events []*event.Event
}

func (m *mockPublisher) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.events = append(m.events, evt)
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fixture: user 1 owns item 10 (available) and item 11 (unavailable);
// user 2 and user 3 own nothing.
type fixture struct {
	users    *mockUserRepo
	items    *mockItemRepo
	bookings *mockBookingStore
	tx       *mockTxManager
	logger   *mockLogger
	svc      BookingService
}

func newFixture() *fixture {
	f := &fixture{
		users: &mockUserRepo{
			users: map[int64]*entity.User{
				1: {ID: 1, Name: "Owner", Email: "owner@example.com"},
				2: {ID: 2, Name: "Booker", Email: "booker@example.com"},
				3: {ID: 3, Name: "Stranger", Email: "stranger@example.com"},
			},
			ownedItems: map[int64][]int64{1: {10, 11}},
		},
		items: &mockItemRepo{
			items: map[int64]*entity.Item{
				10: {ID: 10, Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1},
				11: {ID: 11, Name: "Ladder", Description: "Tall", Available: false, OwnerID: 1},
			},
		},
		bookings: &mockBookingStore{},
		tx:       &mockTxManager{},
		logger:   &mockLogger{},
	}
	f.svc = NewBookingService(f.users, f.items, f.bookings, f.tx, port.FixedClock(testNow), f.logger)
	return f
}

func newCatalog(f *fixture) CatalogService {
	return NewCatalogService(f.users, f.items, f.bookings, f.tx, port.FixedClock(testNow), f.logger)
}
