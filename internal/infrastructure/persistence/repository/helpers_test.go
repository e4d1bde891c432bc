package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/shareit/pkg/database"
)

type testStore struct {
	db       *sqlite.DB
	users    *UserRepository
	items    *ItemRepository
	bookings *BookingRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	logger := zap.NewNop()

	raw, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "shareit.db"),
		MaxOpenConns: 8,
		MaxIdleConns: 8,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	require.NoError(t, database.NewMigrator(raw, logger).RunMigrations(sqlite.Migrations, sqlite.MigrationsDir))

	db := sqlite.NewDB(raw.DB, logger)
	return &testStore{
		db:       db,
		users:    NewUserRepository(db, logger),
		items:    NewItemRepository(db, logger),
		bookings: NewBookingRepository(db, logger),
	}
}

func (s *testStore) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *testStore) item(t *testing.T, ownerID int64, available bool) *entity.Item {
	t.Helper()
	it := &entity.Item{Name: "Drill", Description: "Cordless drill", Available: available, OwnerID: ownerID}
	require.NoError(t, s.items.Create(context.Background(), it))
	return it
}
