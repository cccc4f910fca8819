// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/ordersync/internal/orders/domain"
)

// OrderEventRequest is the wire shape of an incoming order lifecycle event.
type OrderEventRequest struct {
	EventKind string                `json:"eventKind" binding:"required"`
	EventData OrderEventDataRequest `json:"eventData" binding:"required"`
}

// OrderEventDataRequest carries the order fields transported with an event.
type OrderEventDataRequest struct {
	OrderID string  `json:"orderId"`
	SKU     string  `json:"sku"`
	Units   int     `json:"units"`
	Price   float64 `json:"price"`
	UserID  string  `json:"userId"`
}

// Validate checks the wire-level shape of the request. Deeper semantics, such
// as creation events carrying a complete order, are enforced by the domain.
func (r *OrderEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventKind,
			validation.Required,
			validation.In(eventKindValues()...),
		),
		validation.Field(&r.EventData, validation.Required),
	)
}

// ToDomain converts the request to a domain order event.
func (r *OrderEventRequest) ToDomain() *domain.OrderEvent {
	return &domain.OrderEvent{
		Kind: domain.EventKind(r.EventKind),
		Data: domain.EventData{
			OrderID: r.EventData.OrderID,
			SKU:     r.EventData.SKU,
			Units:   r.EventData.Units,
			Price:   r.EventData.Price,
			UserID:  r.EventData.UserID,
		},
	}
}

func eventKindValues() []interface{} {
	kinds := domain.EventKinds()
	values := make([]interface{}, len(kinds))
	for i, kind := range kinds {
		values[i] = string(kind)
	}
	return values
}
