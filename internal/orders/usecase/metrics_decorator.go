package usecase

import (
	"context"
	"time"

	"github.com/allisson/ordersync/internal/metrics"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// orderSyncUseCaseWithMetrics decorates OrderSyncUseCase with metrics
// instrumentation.
type orderSyncUseCaseWithMetrics struct {
	next    OrderSyncUseCase
	metrics metrics.BusinessMetrics
}

// NewOrderSyncUseCaseWithMetrics wraps an OrderSyncUseCase with metrics
// recording.
func NewOrderSyncUseCaseWithMetrics(useCase OrderSyncUseCase, m metrics.BusinessMetrics) OrderSyncUseCase {
	return &orderSyncUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ProcessEvent records metrics for event processing operations.
func (o *orderSyncUseCaseWithMetrics) ProcessEvent(ctx context.Context, event *domain.OrderEvent) error {
	start := time.Now()
	err := o.next.ProcessEvent(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "orders", "event_process", status)
	o.metrics.RecordDuration(ctx, "orders", "event_process", time.Since(start), status)

	return err
}

// GetOrder records metrics for order retrieval operations.
func (o *orderSyncUseCaseWithMetrics) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.GetOrder(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "orders", "order_get", status)
	o.metrics.RecordDuration(ctx, "orders", "order_get", time.Since(start), status)

	return order, err
}

// ListOrderEvents records metrics for event listing operations.
func (o *orderSyncUseCaseWithMetrics) ListOrderEvents(
	ctx context.Context,
	orderID string,
) ([]*domain.OrderEvent, error) {
	start := time.Now()
	events, err := o.next.ListOrderEvents(ctx, orderID)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "orders", "order_events_list", status)
	o.metrics.RecordDuration(ctx, "orders", "order_events_list", time.Since(start), status)

	return events, err
}
