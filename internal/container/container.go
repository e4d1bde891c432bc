// Package container wires the ShareIt components together and manages their
// lifecycle: ordered start and reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/dispatcher"
	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/application/service"
	"github.com/garyjia/shareit/internal/config"
	"github.com/garyjia/shareit/internal/domain/event"
	"github.com/garyjia/shareit/internal/infrastructure/messaging/kafka"
)

// Container manages all application dependencies and lifecycle
type Container struct {
	config *config.Config
	logger *zap.Logger
	clock  port.Clock

	// Infrastructure - Data
	database     *DatabaseBundle
	repositories *RepositoryBundle

	// Infrastructure - Events
	dispatcher dispatcher.Dispatcher
	producer   *kafka.Producer

	// Application
	services *ServiceBundle

	// Lifecycle
	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access
type RepositoryBundle struct {
	Users    port.UserRepository
	Items    port.ItemRepository
	Bookings port.BookingStore
}

// ServiceBundle groups all application services
type ServiceBundle struct {
	Booking service.BookingService
	Catalog service.CatalogService
}

// HealthStatus represents the health of all components
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Option customises a container
type Option func(*Container)

// WithClock replaces the system clock used by the booking service
func WithClock(clock port.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{
		config: cfg,
		logger: logger,
		clock:  port.SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start initializes all components in dependency order:
// 1. Database and repositories
// 2. Event dispatcher and Kafka publisher
// 3. Application services
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	db, err := ProvideDatabase(ctx, &c.config.Database, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.database = db
	c.repositories = db.Repositories
	c.logger.Info("Database initialized", zap.String("driver", c.config.Database.Driver))

	// Step 2: Initialize dispatcher and event sinks
	if err := c.initEvents(); err != nil {
		c.shutdown()
		return fmt.Errorf("failed to initialize events: %w", err)
	}
	c.logger.Info("Event dispatcher initialized", zap.Bool("kafka", c.producer != nil))

	// Step 3: Initialize application services
	services, err := ProvideServices(&ServiceDeps{
		Repos:      c.repositories,
		TxManager:  c.database.TransactionMgr,
		Dispatcher: c.dispatcher,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		c.shutdown()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

func (c *Container) initEvents() error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	producer, err := ProvideKafkaPublisher(&c.config.Events.Kafka, disp, c.logger)
	if err != nil {
		return err
	}
	c.producer = producer
	return nil
}

// Close gracefully shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	errs := c.shutdown()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// shutdown releases whatever has been started. The dispatcher closes before
// the producer so that pending async handlers can still enqueue messages.
func (c *Container) shutdown() []error {
	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
		c.dispatcher = nil
	}

	if c.producer != nil {
		if err := c.producer.Close(); err != nil {
			c.logger.Error("Failed to close kafka producer", zap.Error(err))
			errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
		}
		c.producer = nil
	}

	if c.database != nil {
		if err := c.database.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		c.database = nil
	}

	return errs
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := &HealthStatus{
		Overall:    c.Ready(),
		Components: make(map[string]ComponentHealth),
	}

	if c.database != nil {
		if err := c.database.Ping(ctx); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("%d handlers", countHandlers(c.dispatcher)),
		}
	} else {
		status.Components["dispatcher"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.config.Events.Kafka.Enabled {
		healthy := c.producer != nil && c.dispatcher != nil && publishesAll(c.dispatcher, kafka.SubscriberName)
		status.Components["kafka"] = ComponentHealth{
			Healthy: healthy,
			Message: c.config.Events.Kafka.Topic,
		}
		status.Overall = status.Overall && healthy
	}

	if c.services == nil {
		status.Components["services"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	} else {
		status.Components["services"] = ComponentHealth{Healthy: true}
	}

	return status
}

func countHandlers(d dispatcher.Dispatcher) int {
	n := 0
	for _, typ := range event.BookingTypes {
		n += len(d.ListHandlers(typ))
	}
	return n
}

// publishesAll reports whether the named handler receives every booking event
func publishesAll(d dispatcher.Dispatcher, name string) bool {
	for _, typ := range event.BookingTypes {
		found := false
		for _, h := range d.ListHandlers(typ) {
			if h.Name == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Repositories returns all repositories
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Dispatcher returns the event dispatcher
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Services returns all application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration
func (c *Container) Config() *config.Config {
	return c.config
}
