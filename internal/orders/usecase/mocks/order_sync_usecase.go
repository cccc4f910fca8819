package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/ordersync/internal/orders/domain"
)

// MockOrderSyncUseCase is a mock implementation of OrderSyncUseCase for testing.
type MockOrderSyncUseCase struct {
	mock.Mock
}

// ProcessEvent mocks the ProcessEvent method of OrderSyncUseCase.
func (m *MockOrderSyncUseCase) ProcessEvent(ctx context.Context, event *domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// GetOrder mocks the GetOrder method of OrderSyncUseCase.
func (m *MockOrderSyncUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// ListOrderEvents mocks the ListOrderEvents method of OrderSyncUseCase.
func (m *MockOrderSyncUseCase) ListOrderEvents(
	ctx context.Context,
	orderID string,
) ([]*domain.OrderEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OrderEvent), args.Error(1)
}
