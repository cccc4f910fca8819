// Package mocks provides mock implementations for testing order use cases
// and HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/ordersync/internal/orders/domain"
)

// MockOrderRepository is a mock implementation of OrderRepository for testing.
type MockOrderRepository struct {
	mock.Mock
}

// GetByID mocks the GetByID method of OrderRepository.
func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// Create mocks the Create method of OrderRepository.
func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// UpdateStatus mocks the UpdateStatus method of OrderRepository.
func (m *MockOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.Status,
	updatedAt time.Time,
) (*domain.Order, error) {
	args := m.Called(ctx, id, status, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockEventLogRepository is a mock implementation of EventLogRepository for testing.
type MockEventLogRepository struct {
	mock.Mock
}

// Append mocks the Append method of EventLogRepository.
func (m *MockEventLogRepository) Append(ctx context.Context, event *domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// ListByOrderID mocks the ListByOrderID method of EventLogRepository.
func (m *MockEventLogRepository) ListByOrderID(
	ctx context.Context,
	orderID string,
) ([]*domain.OrderEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OrderEvent), args.Error(1)
}
