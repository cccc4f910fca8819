package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allisson/ordersync/internal/database"
	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// orderSyncUseCase implements the OrderSyncUseCase interface.
type orderSyncUseCase struct {
	txManager    database.TxManager
	orderRepo    OrderRepository
	eventLogRepo EventLogRepository
}

// ProcessEvent processes one incoming order lifecycle event.
//
// The flow is read, then create-or-transition: an absent order plus the
// creation event kind builds a new aggregate and records the creation fact;
// a present order has its status advanced through the transition table under
// the store's own guard. An absent order plus any other event kind arrived
// before its causal predecessor and is reported as a transient failure so the
// delivery substrate redelivers it after backoff.
func (o *orderSyncUseCase) ProcessEvent(ctx context.Context, event *domain.OrderEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	order, err := o.orderRepo.GetByID(ctx, event.Data.OrderID)
	switch {
	case err == nil:
		return o.transitionOrder(ctx, order, event)
	case errors.Is(err, apperrors.ErrNotFound):
		if event.Kind == domain.CreationEventKind {
			return o.createOrder(ctx, event)
		}
		return apperrors.Wrap(
			domain.ErrNotReadyStatusTransition,
			fmt.Sprintf("no stored order %q for event %s", event.Data.OrderID, event.Kind),
		)
	default:
		return err
	}
}

// createOrder builds the initial aggregate from a creation event and persists
// it together with the creation fact in a single transaction.
//
// A concurrent creation of the same order is an idempotent success for the
// aggregate write: the first writer's record is authoritative and this writer
// proceeds to the fact append, which then reports the terminal duplicate.
func (o *orderSyncUseCase) createOrder(ctx context.Context, event *domain.OrderEvent) error {
	if err := event.ValidateForCreation(); err != nil {
		return err
	}

	now := time.Now().UTC()
	order := event.NewOrder(now)
	fact := &domain.OrderEvent{
		Kind:      event.Kind,
		Data:      event.Data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return o.txManager.WithTx(ctx, func(txCtx context.Context) error {
		err := o.orderRepo.Create(txCtx, order)
		if err != nil && !errors.Is(err, domain.ErrOrderAlreadyExists) {
			return err
		}
		return o.eventLogRepo.Append(txCtx, fact)
	})
}

// transitionOrder advances a stored order through the transition table.
//
// The guarded write is a second idempotency check defending against races
// between the read and this write: when the guard fails, the record the store
// returns is authoritative and the delivery is accepted as already applied.
func (o *orderSyncUseCase) transitionOrder(
	ctx context.Context,
	order *domain.Order,
	event *domain.OrderEvent,
) error {
	next, err := domain.NextStatus(order.Status, event.Kind)
	if err != nil {
		return err
	}

	_, err = o.orderRepo.UpdateStatus(ctx, order.ID, next, time.Now().UTC())
	return err
}

// GetOrder retrieves an order aggregate by its id.
func (o *orderSyncUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return o.orderRepo.GetByID(ctx, id)
}

// ListOrderEvents retrieves the recorded facts for an order, oldest first.
// The order must exist; an unknown id returns domain.ErrOrderNotFound rather
// than an empty list.
func (o *orderSyncUseCase) ListOrderEvents(ctx context.Context, orderID string) ([]*domain.OrderEvent, error) {
	if _, err := o.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return o.eventLogRepo.ListByOrderID(ctx, orderID)
}

// NewOrderSyncUseCase creates a new order sync use case instance with the
// provided dependencies.
func NewOrderSyncUseCase(
	txManager database.TxManager,
	orderRepo OrderRepository,
	eventLogRepo EventLogRepository,
) OrderSyncUseCase {
	return &orderSyncUseCase{
		txManager:    txManager,
		orderRepo:    orderRepo,
		eventLogRepo: eventLogRepo,
	}
}
