package container

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/config"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/domain/event"
	"github.com/garyjia/shareit/internal/infrastructure/messaging/kafka"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 9090},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         filepath.Join(t.TempDir(), "shareit.db"),
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Auth: config.AuthConfig{UserHeader: "X-Sharer-User-Id"},
	}
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c, err := NewContainer(testConfig(t), zap.NewNop(), WithClock(port.FixedClock(now)))
	require.NoError(t, err)

	health := c.Health(context.Background())
	assert.False(t, health.Overall)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start")

	health = c.Health(ctx)
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	_, hasKafka := health.Components["kafka"]
	assert.False(t, hasKafka)

	var (
		mu     sync.Mutex
		events []event.Type
	)
	c.Dispatcher().SubscribeNamed("recorder", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, evt.Type)
		return nil
	}, event.TypeBookingCreated)
	assert.Equal(t, "1 handlers", c.Health(ctx).Components["dispatcher"].Message)

	catalog := c.Services().Catalog
	owner, err := catalog.CreateUser(ctx, "Owner", "owner@example.com")
	require.NoError(t, err)
	booker, err := catalog.CreateUser(ctx, "Booker", "booker@example.com")
	require.NoError(t, err)
	item, err := catalog.CreateItem(ctx, owner.ID, &entity.Item{Name: "Drill", Description: "Cordless", Available: true})
	require.NoError(t, err)

	booking, err := c.Services().Booking.Create(ctx, now.Add(time.Hour), now.Add(2*time.Hour), item.ID, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWaiting, booking.Status)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.False(t, c.Health(ctx).Overall, "closed container is not healthy")
	assert.Error(t, c.Close(), "second close")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.Type{event.TypeBookingCreated}, events)
}

func TestContainer_StartFailsOnBadDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "shareit.db")

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, c.Start(context.Background()))
	assert.False(t, c.Ready())
}

func TestProvideKafkaPublisher_Disabled(t *testing.T) {
	disp, err := ProvideDispatcher(zap.NewNop())
	require.NoError(t, err)
	defer disp.Close()

	producer, err := ProvideKafkaPublisher(&config.KafkaConfig{Enabled: false}, disp, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, producer)
	assert.Empty(t, disp.ListHandlers(event.TypeBookingCreated))
}

func TestPublishesAll(t *testing.T) {
	disp, err := ProvideDispatcher(zap.NewNop())
	require.NoError(t, err)
	defer disp.Close()

	noop := func(ctx context.Context, evt *event.Event) error { return nil }
	assert.False(t, publishesAll(disp, kafka.SubscriberName))
	assert.Zero(t, countHandlers(disp))

	disp.SubscribeNamed(kafka.SubscriberName, noop, event.TypeBookingCreated, event.TypeBookingApproved)
	assert.False(t, publishesAll(disp, kafka.SubscriberName), "rejections are not published")

	disp.SubscribeNamed(kafka.SubscriberName, noop, event.TypeBookingRejected)
	assert.True(t, publishesAll(disp, kafka.SubscriberName))
	assert.False(t, publishesAll(disp, "other"))
	assert.Equal(t, 3, countHandlers(disp))
}
