package container

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/dispatcher"
	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/application/service"
	"github.com/garyjia/shareit/internal/config"
	"github.com/garyjia/shareit/internal/infrastructure/messaging/kafka"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/postgres"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/repository"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/shareit/pkg/database"
	"github.com/garyjia/shareit/pkg/utils"
)

// DatabaseBundle holds the open store, its transaction manager and the
// functions to check and release it.
type DatabaseBundle struct {
	TransactionMgr port.TransactionManager
	Repositories   *RepositoryBundle
	Ping           func(ctx context.Context) error
	Close          func() error
}

// ProvideDatabase opens the configured store, applies its schema and builds
// the repositories on top of it.
func ProvideDatabase(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return provideSQLite(cfg, logger)
	case config.DriverPostgres:
		return providePostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func provideSQLite(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	var (
		migrations fs.FS = sqlite.Migrations
		dir              = sqlite.MigrationsDir
	)
	if cfg.MigrationsDir != "" {
		migrations, dir = os.DirFS(cfg.MigrationsDir), "."
	}
	if err := database.NewMigrator(db, logger).RunMigrations(migrations, dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	txDB := sqlite.NewDB(db.DB, logger)
	return &DatabaseBundle{
		TransactionMgr: txDB,
		Repositories: &RepositoryBundle{
			Users:    repository.NewUserRepository(txDB, logger),
			Items:    repository.NewItemRepository(txDB, logger),
			Bookings: repository.NewBookingRepository(txDB, logger),
		},
		Ping:  db.PingContext,
		Close: db.Close,
	}, nil
}

func providePostgres(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.DSN,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
	})
	if err != nil {
		return nil, err
	}

	db := postgres.NewDB(pool, logger)
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &DatabaseBundle{
		TransactionMgr: db,
		Repositories: &RepositoryBundle{
			Users:    postgres.NewUserRepository(db, logger),
			Items:    postgres.NewItemRepository(db, logger),
			Bookings: postgres.NewBookingRepository(db, logger),
		},
		Ping: db.Ping,
		Close: func() error {
			db.Close()
			return nil
		},
	}, nil
}

// ProvideDispatcher creates the event dispatcher
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewSugarAdapter(logger))), nil
}

// ProvideKafkaPublisher starts a producer and subscribes it to every booking
// event. It returns nil when publishing is disabled.
func ProvideKafkaPublisher(cfg *config.KafkaConfig, disp dispatcher.Dispatcher, logger *zap.Logger) (*kafka.Producer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if disp == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	producer := kafka.NewProducer(kafka.Config{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		Buffer:  cfg.Buffer,
	}, logger)
	producer.Start()
	kafka.Subscribe(disp, producer)

	logger.Info("Kafka publisher enabled",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic))
	return producer, nil
}

// ServiceDeps holds dependencies for creating services
type ServiceDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Clock      port.Clock
	Logger     *zap.Logger
}

// ProvideServices creates the application services. Booking calls are
// wrapped so that successful changes emit lifecycle events.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = port.SystemClock{}
	}
	svcLogger := utils.NewSugarAdapter(deps.Logger)

	var booking service.BookingService = service.NewBookingService(
		deps.Repos.Users,
		deps.Repos.Items,
		deps.Repos.Bookings,
		deps.TxManager,
		clock,
		svcLogger,
	)
	if deps.Dispatcher != nil {
		booking = service.NewPublishingBookingService(booking, deps.Dispatcher)
	}

	return &ServiceBundle{
		Booking: booking,
		Catalog: service.NewCatalogService(
			deps.Repos.Users,
			deps.Repos.Items,
			deps.Repos.Bookings,
			deps.TxManager,
			clock,
			svcLogger,
		),
	}, nil
}
