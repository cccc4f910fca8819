// Package usecase defines the interfaces and implementations for order
// synchronization use cases. Use cases orchestrate operations between the
// order store and the event log to keep an order's stored status consistent
// with the lifecycle events delivered for it.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/ordersync/internal/orders/domain"
)

// OrderRepository defines the interface for order aggregate persistence
// operations.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	// UpdateStatus writes the new status under a guard condition "stored
	// status differs from target status". On guard failure it returns the
	// pre-existing record instead of the freshly written one.
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) (*domain.Order, error)
}

// EventLogRepository defines the interface for the append-once event log.
type EventLogRepository interface {
	// Append records a fact keyed by (order id, event kind). A second append
	// with the same key returns domain.ErrDuplicateEventAppend.
	Append(ctx context.Context, event *domain.OrderEvent) error
	ListByOrderID(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}

// OrderSyncUseCase defines the interface for order synchronization business
// logic.
type OrderSyncUseCase interface {
	// ProcessEvent processes exactly one incoming event end-to-end: it reads
	// the order aggregate, creates it or transitions its status, and records
	// the creation fact. A nil return or a non-transient error means the
	// caller must acknowledge the delivery; a transient error means the
	// caller must redeliver after backoff.
	ProcessEvent(ctx context.Context, event *domain.OrderEvent) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrderEvents(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}
