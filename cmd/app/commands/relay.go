package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allisson/ordersync/internal/app"
	"github.com/allisson/ordersync/internal/config"
)

// RunRelay starts the inbox relay worker with graceful shutdown support.
// Loads configuration, initializes the DI container, and runs the relay loop
// that drains pending inbox messages into the order state. Blocks until
// receiving SIGINT/SIGTERM.
func RunRelay(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting relay worker", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get inbox use case from container (this initializes all dependencies)
	inboxUseCase, err := container.InboxUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize inbox use case: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The relay loop blocks until the context is cancelled
	if err := inboxUseCase.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("relay worker error: %w", err)
	}

	logger.Info("relay worker stopped")
	return nil
}
