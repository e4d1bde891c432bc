package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/bookingsql"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestUserRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := s.user(t, "alice")
	assert.NotZero(t, alice.ID)

	found, err := s.users.FindUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, found)

	byEmail, err := s.users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	missing, err := s.users.FindUser(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = s.users.Create(ctx, &entity.User{Name: "dup", Email: "alice@example.com"})
	assert.Error(t, err, "email is unique")
}

func TestUserRepository_ItemsOwnedBy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	other := s.user(t, "other")
	first := s.item(t, owner.ID, true)
	second := s.item(t, owner.ID, false)
	s.item(t, other.ID, true)

	ids, err := s.users.ItemsOwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, ids)

	none, err := s.users.ItemsOwnedBy(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestItemRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	item := s.item(t, owner.ID, true)

	found, err := s.items.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, found)

	found.Available = false
	found.Name = "Hammer drill"
	require.NoError(t, s.items.Update(ctx, found))

	updated, err := s.items.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Hammer drill", updated.Name)

	missing, err := s.items.FindItem(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, s.items.Update(ctx, &entity.Item{ID: 999, Name: "x", Description: "y"}))
}

func TestUserRepository_ListUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := s.user(t, "alice")
	bob := s.user(t, "bob")

	users, err := s.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, alice.ID, users[0].ID)
	assert.Equal(t, bob.ID, users[1].ID)

	alice.Name = "Alice"
	alice.Email = "alice@shareit.test"
	require.NoError(t, s.users.Update(ctx, alice))
	found, err := s.users.FindUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, found)

	bob.Email = "alice@shareit.test"
	assert.Error(t, s.users.Update(ctx, bob), "email is unique")
	assert.Error(t, s.users.Update(ctx, &entity.User{ID: 999, Name: "x", Email: "x@example.com"}))

	deleted, err := s.users.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.users.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	users, err = s.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_DeleteOwnerRefused(t *testing.T) {
	s := newTestStore(t)
	owner := s.user(t, "owner")
	s.item(t, owner.ID, true)

	_, err := s.users.Delete(context.Background(), owner.ID)

	assert.Error(t, err, "items reference their owner")
}

func TestItemRepository_ListByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	other := s.user(t, "other")
	first := s.item(t, owner.ID, true)
	s.item(t, other.ID, true)
	second := s.item(t, owner.ID, false)
	third := s.item(t, owner.ID, true)

	all, err := s.items.ListByOwner(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	page, err := s.items.ListByOwner(ctx, owner.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	none, err := s.items.ListByOwner(ctx, 999, 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestItemRepository_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")

	create := func(name, description string, available bool) *entity.Item {
		it := &entity.Item{Name: name, Description: description, Available: available, OwnerID: owner.ID}
		require.NoError(t, s.items.Create(ctx, it))
		return it
	}
	drill := create("Cordless DRILL", "18V", true)
	saw := create("Saw", "cuts like a drill would not", true)
	create("Drill press", "bench mounted", false)
	percent := create("Mixer", "100% copper", true)

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{"name ignores case", "drill", []int64{drill.ID, saw.ID}},
		{"description ignores case", "18v", []int64{drill.ID}},
		{"percent matches literally", "0%", []int64{percent.ID}},
		{"underscore matches literally", "_", nil},
		{"no match", "ladder", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := s.items.Search(ctx, tt.text, 0, 10)
			require.NoError(t, err)
			var ids []int64
			for _, it := range items {
				assert.True(t, it.Available, "unavailable items are not returned")
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	page, err := s.items.Search(ctx, "drill", 1, 5)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, saw.ID, page[0].ID)
}

func TestBookingRepository_SaveAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	booker := s.user(t, "booker")
	item := s.item(t, owner.ID, true)

	booking := entity.NewBooking(base.Add(time.Hour), base.Add(2*time.Hour), item.ID, booker.ID, base)
	require.NoError(t, s.bookings.Save(ctx, booking))
	assert.NotZero(t, booking.ID)

	found, err := s.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking, found)

	missing, err := s.bookings.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBookingRepository_SaveRejectsInvertedWindow(t *testing.T) {
	s := newTestStore(t)
	owner := s.user(t, "owner")
	booker := s.user(t, "booker")
	item := s.item(t, owner.ID, true)

	err := s.bookings.Save(context.Background(),
		entity.NewBooking(base.Add(2*time.Hour), base.Add(time.Hour), item.ID, booker.ID, base))

	assert.Error(t, err)
}

func TestBookingRepository_CompareAndSetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	booker := s.user(t, "booker")
	item := s.item(t, owner.ID, true)
	booking := entity.NewBooking(base.Add(time.Hour), base.Add(2*time.Hour), item.ID, booker.ID, base)
	require.NoError(t, s.bookings.Save(ctx, booking))

	ok, err := s.bookings.CompareAndSetStatus(ctx, booking.ID, entity.StatusWaiting, entity.StatusApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.bookings.CompareAndSetStatus(ctx, booking.ID, entity.StatusWaiting, entity.StatusRejected)
	require.NoError(t, err)
	assert.False(t, ok)

	found, _ := s.bookings.FindByID(ctx, booking.ID)
	assert.Equal(t, entity.StatusApproved, found.Status)

	ok, err = s.bookings.CompareAndSetStatus(ctx, 999, entity.StatusWaiting, entity.StatusApproved)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_QueryOrderingAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	booker := s.user(t, "booker")
	item := s.item(t, owner.ID, true)

	var ids []int64
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		b := entity.NewBooking(start, start.Add(time.Hour), item.ID, booker.ID, base)
		require.NoError(t, s.bookings.Save(ctx, b))
		ids = append(ids, b.ID)
	}

	all, err := s.bookings.Query(ctx, port.BookingQuery{BookerID: booker.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Start.After(all[i].Start), "ordered by start descending")
	}
	assert.Equal(t, ids[4], all[0].ID)

	page, err := s.bookings.Query(ctx, port.BookingQuery{BookerID: booker.ID, Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	tail, err := s.bookings.Query(ctx, port.BookingQuery{BookerID: booker.ID, Offset: 4, Limit: 20})
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, ids[0], tail[0].ID)
}

// Times are stored in milliseconds; a booking starting within the same
// millisecond as now must be neither past nor future, in memory or in SQL.
func TestBookingRepository_StartBoundaryAtStorePrecision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := s.user(t, "owner")
	booker := s.user(t, "booker")
	item := s.item(t, owner.ID, true)

	booking := entity.NewBooking(base.Add(1500*time.Microsecond), base.Add(time.Hour), item.ID, booker.ID, base)
	require.NoError(t, s.bookings.Save(ctx, booking))
	now := base.Add(1200 * time.Microsecond).Truncate(entity.TimePrecision)

	found, err := s.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, found.Start.Equal(booking.Start), "stored start equals the in-memory start")
	assert.False(t, booking.Start.After(now))
	assert.False(t, booking.Start.Before(now))

	future, err := s.bookings.Query(ctx, port.BookingQuery{BookerID: booker.ID, StartAfter: &now, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, future)

	past, err := s.bookings.Query(ctx, port.BookingQuery{BookerID: booker.ID, StartBefore: &now, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestBookingRepository_QueryUnscoped(t *testing.T) {
	s := newTestStore(t)

	_, err := s.bookings.Query(context.Background(), port.BookingQuery{Limit: 10})

	assert.True(t, errors.Is(err, bookingsql.ErrUnscoped))
}

func TestTransactionRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, &entity.User{Name: "ghost", Email: "ghost@example.com"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ghost, err := s.users.FindByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, ghost, "insert inside a failed transaction must be rolled back")
}
