// Package http exposes the booking workflow and catalog services over gin.
// Handlers translate requests into service calls and map service errors to
// status codes; they hold no business rules beyond input validation.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            9090,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultServerConfig
func (c ServerConfig) withDefaults() ServerConfig {
	d := DefaultServerConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// HealthFunc reports whether the backing components are usable
type HealthFunc func(ctx context.Context) (healthy bool, details interface{})

// Option configures optional server collaborators
type Option func(*Server)

// WithClock sets the clock used to reject bookings that start in the past
func WithClock(clock port.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithHealth sets the component check behind GET /health
func WithHealth(fn HealthFunc) Option {
	return func(s *Server) {
		s.health = fn
	}
}

// Server is the HTTP server adapter
type Server struct {
	config         ServerConfig
	httpServer     *http.Server
	router         *gin.Engine
	bookingService service.BookingService
	catalogService service.CatalogService
	identity       IdentityConfig
	clock          port.Clock
	health         HealthFunc
	logger         Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	bookingService service.BookingService,
	catalogService service.CatalogService,
	identity IdentityConfig,
	logger Logger,
	opts ...Option,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:         config.withDefaults(),
		router:         router,
		bookingService: bookingService,
		catalogService: catalogService,
		identity:       identity,
		clock:          port.SystemClock{},
		logger:         logger,
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.bookingService, s.catalogService, s.clock, s.health, s.logger)
	requireCaller := IdentityMiddleware(s.identity)

	s.router.GET("/health", handlers.HealthCheck)

	bookings := s.router.Group("/bookings", requireCaller)
	{
		bookings.POST("", handlers.CreateBooking)
		bookings.GET("", handlers.ListBookerBookings)
		bookings.GET("/owner", handlers.ListOwnerBookings)
		bookings.GET("/:bookingId", handlers.GetBooking)
		bookings.PATCH("/:bookingId", handlers.DecideBooking)
	}

	users := s.router.Group("/users")
	{
		users.POST("", handlers.CreateUser)
		users.GET("", handlers.ListUsers)
		users.GET("/:userId", handlers.GetUser)
		users.PATCH("/:userId", handlers.UpdateUser)
		users.DELETE("/:userId", handlers.DeleteUser)
	}

	items := s.router.Group("/items")
	{
		items.POST("", requireCaller, handlers.CreateItem)
		items.GET("", requireCaller, handlers.ListOwnerItems)
		items.GET("/search", handlers.SearchItems)
		items.GET("/:itemId", requireCaller, handlers.GetItem)
		items.PATCH("/:itemId", requireCaller, handlers.UpdateItem)
	}
}

// Start runs the server until ctx is canceled or listening fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
