// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/allisson/ordersync/internal/metrics"
	ordersHTTP "github.com/allisson/ordersync/internal/orders/http"
)

// Server represents the HTTP API server
type Server struct {
	server           *http.Server
	db               *sql.DB
	orderHandler     *ordersHTTP.OrderHandler
	corsEnabled      bool
	corsOrigins      string
	meterProvider    otelmetric.MeterProvider
	metricsNamespace string
	rateLimitRPS     float64
	rateLimitBurst   int
	logger           *slog.Logger
}

// NewServer creates a new HTTP API server
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	orderHandler *ordersHTTP.OrderHandler,
	corsEnabled bool,
	corsOrigins string,
) *Server {
	return &Server{
		db:           db,
		orderHandler: orderHandler,
		corsEnabled:  corsEnabled,
		corsOrigins:  corsOrigins,
		logger:       logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// WithHTTPMetrics enables HTTP request metrics on the server's router.
func (s *Server) WithHTTPMetrics(meterProvider otelmetric.MeterProvider, namespace string) *Server {
	s.meterProvider = meterProvider
	s.metricsNamespace = namespace
	return s
}

// WithRateLimit enables per-caller rate limiting on the v1 API routes.
func (s *Server) WithRateLimit(rps float64, burst int) *Server {
	s.rateLimitRPS = rps
	s.rateLimitBurst = burst
	return s
}

// setupRouter builds the gin router with middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.metricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(s.corsEnabled, s.corsOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	if s.orderHandler != nil {
		v1 := router.Group("/v1")
		if s.rateLimitRPS > 0 {
			v1.Use(RateLimitMiddleware(s.rateLimitRPS, s.rateLimitBurst, s.logger))
		}
		v1.POST("/order-events", s.orderHandler.EnqueueEventHandler)
		v1.GET("/orders/:id", s.orderHandler.GetOrderHandler)
		v1.GET("/orders/:id/events", s.orderHandler.ListOrderEventsHandler)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	if err := s.pingDatabase(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

func (s *Server) pingDatabase(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database is not configured")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.db.PingContext(pingCtx)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.setupRouter()
}

// Start starts the HTTP API server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.setupRouter()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
