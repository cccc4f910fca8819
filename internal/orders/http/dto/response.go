package dto

import (
	"time"

	inboxDomain "github.com/allisson/ordersync/internal/inbox/domain"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// EventAcceptedResponse acknowledges that an event delivery was durably
// accepted for asynchronous processing.
type EventAcceptedResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// MapMessageToAcceptedResponse converts an inbox message to an acceptance response.
func MapMessageToAcceptedResponse(message *inboxDomain.Message) EventAcceptedResponse {
	return EventAcceptedResponse{
		MessageID: message.ID.String(),
		Status:    string(message.Status),
	}
}

// OrderResponse represents an order aggregate in API responses.
type OrderResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	SKU       string    `json:"sku"`
	Units     int       `json:"units"`
	Price     float64   `json:"price"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapOrderToResponse converts a domain order to an API response.
func MapOrderToResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        order.ID,
		Status:    string(order.Status),
		SKU:       order.SKU,
		Units:     order.Units,
		Price:     order.Price,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// OrderEventResponse represents a recorded order fact in API responses.
type OrderEventResponse struct {
	EventKind string                `json:"eventKind"`
	EventData OrderEventDataRequest `json:"eventData"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// MapEventToResponse converts a domain order event to an API response.
func MapEventToResponse(event *domain.OrderEvent) OrderEventResponse {
	return OrderEventResponse{
		EventKind: string(event.Kind),
		EventData: OrderEventDataRequest{
			OrderID: event.Data.OrderID,
			SKU:     event.Data.SKU,
			Units:   event.Data.Units,
			Price:   event.Data.Price,
			UserID:  event.Data.UserID,
		},
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
}

// MapEventsToResponse converts a slice of domain order events to API responses.
func MapEventsToResponse(events []*domain.OrderEvent) []OrderEventResponse {
	responses := make([]OrderEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, MapEventToResponse(event))
	}
	return responses
}
