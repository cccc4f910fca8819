// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/ordersync/internal/config"
	"github.com/allisson/ordersync/internal/database"
	"github.com/allisson/ordersync/internal/http"
	inboxRepository "github.com/allisson/ordersync/internal/inbox/repository"
	inboxUsecase "github.com/allisson/ordersync/internal/inbox/usecase"
	"github.com/allisson/ordersync/internal/metrics"
	ordersHTTP "github.com/allisson/ordersync/internal/orders/http"
	ordersRepository "github.com/allisson/ordersync/internal/orders/repository"
	ordersUsecase "github.com/allisson/ordersync/internal/orders/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	orderRepo    ordersUsecase.OrderRepository
	eventLogRepo ordersUsecase.EventLogRepository
	inboxRepo    inboxUsecase.InboxMessageRepository

	// Use Cases
	orderSyncUseCase ordersUsecase.OrderSyncUseCase
	inboxUseCase     inboxUsecase.UseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	orderRepoInit        sync.Once
	eventLogRepoInit     sync.Once
	inboxRepoInit        sync.Once
	orderSyncUseCaseInit sync.Once
	inboxUseCaseInit     sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider instance, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (ordersUsecase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// EventLogRepository returns the event log repository instance.
func (c *Container) EventLogRepository() (ordersUsecase.EventLogRepository, error) {
	var err error
	c.eventLogRepoInit.Do(func() {
		c.eventLogRepo, err = c.initEventLogRepository()
		if err != nil {
			c.initErrors["eventLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventLogRepo"]; exists {
		return nil, storedErr
	}
	return c.eventLogRepo, nil
}

// InboxRepository returns the inbox message repository instance.
func (c *Container) InboxRepository() (inboxUsecase.InboxMessageRepository, error) {
	var err error
	c.inboxRepoInit.Do(func() {
		c.inboxRepo, err = c.initInboxRepository()
		if err != nil {
			c.initErrors["inboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inboxRepo"]; exists {
		return nil, storedErr
	}
	return c.inboxRepo, nil
}

// OrderSyncUseCase returns the order sync use case instance.
func (c *Container) OrderSyncUseCase() (ordersUsecase.OrderSyncUseCase, error) {
	var err error
	c.orderSyncUseCaseInit.Do(func() {
		c.orderSyncUseCase, err = c.initOrderSyncUseCase()
		if err != nil {
			c.initErrors["orderSyncUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderSyncUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderSyncUseCase, nil
}

// InboxUseCase returns the inbox use case instance.
func (c *Container) InboxUseCase() (inboxUsecase.UseCase, error) {
	var err error
	c.inboxUseCaseInit.Do(func() {
		c.inboxUseCase, err = c.initInboxUseCase()
		if err != nil {
			c.initErrors["inboxUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.inboxUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initOrderRepository creates the order repository instance.
func (c *Container) initOrderRepository() (ordersUsecase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return ordersRepository.NewMySQLOrderRepository(db), nil
	case "postgres":
		return ordersRepository.NewPostgreSQLOrderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventLogRepository creates the event log repository instance.
func (c *Container) initEventLogRepository() (ordersUsecase.EventLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return ordersRepository.NewMySQLEventLogRepository(db), nil
	case "postgres":
		return ordersRepository.NewPostgreSQLEventLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initInboxRepository creates the inbox message repository instance.
func (c *Container) initInboxRepository() (inboxUsecase.InboxMessageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for inbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return inboxRepository.NewMySQLInboxMessageRepository(db), nil
	case "postgres":
		return inboxRepository.NewPostgreSQLInboxMessageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrderSyncUseCase creates the order sync use case with all its dependencies.
func (c *Container) initOrderSyncUseCase() (ordersUsecase.OrderSyncUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for order sync use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order sync use case: %w", err)
	}

	eventLogRepo, err := c.EventLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event log repository for order sync use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for order sync use case: %w", err)
	}

	useCase := ordersUsecase.NewOrderSyncUseCase(txManager, orderRepo, eventLogRepo)
	return ordersUsecase.NewOrderSyncUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initInboxUseCase creates the inbox use case with all its dependencies.
func (c *Container) initInboxUseCase() (inboxUsecase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for inbox use case: %w", err)
	}

	inboxRepo, err := c.InboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox repository for inbox use case: %w", err)
	}

	orderSyncUseCase, err := c.OrderSyncUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order sync use case for inbox use case: %w", err)
	}

	useCaseConfig := inboxUsecase.Config{
		Interval:    c.config.RelayInterval,
		BatchSize:   c.config.RelayBatchSize,
		MaxAttempts: c.config.RelayMaxAttempts,
	}

	processor := inboxUsecase.NewOrderEventProcessor(orderSyncUseCase, logger)
	useCase := inboxUsecase.NewInboxUseCase(useCaseConfig, txManager, inboxRepo, processor, logger)

	return useCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	orderSyncUseCase, err := c.OrderSyncUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order sync use case for http server: %w", err)
	}

	inboxUseCase, err := c.InboxUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get inbox use case for http server: %w", err)
	}

	orderHandler := ordersHTTP.NewOrderHandler(orderSyncUseCase, inboxUseCase, logger)

	server := http.NewServer(
		db,
		c.config.ServerHost,
		c.config.ServerPort,
		logger,
		orderHandler,
		c.config.CORSEnabled,
		c.config.CORSAllowOrigins,
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		server.WithHTTPMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	if c.config.RateLimitEnabled {
		server.WithRateLimit(c.config.RateLimitRequestsPerSec, c.config.RateLimitBurst)
	}

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
