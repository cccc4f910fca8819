package domain

import (
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/ordersync/internal/errors"
	customValidation "github.com/allisson/ordersync/internal/validation"
)

// EventKind identifies a kind of order lifecycle event. The enumeration is
// closed: every event the system can observe appears below.
type EventKind string

const (
	EventOrderCreated    EventKind = "ORDER_CREATED_EVENT"
	EventOrderPlaced     EventKind = "ORDER_PLACED_EVENT"
	EventStockDepleted   EventKind = "ORDER_STOCK_DEPLETED_EVENT"
	EventStockAllocated  EventKind = "ORDER_STOCK_ALLOCATED_EVENT"
	EventPaymentRejected EventKind = "ORDER_PAYMENT_REJECTED_EVENT"
	EventPaymentAccepted EventKind = "ORDER_PAYMENT_ACCEPTED_EVENT"
	EventFulfilled       EventKind = "ORDER_FULFILLED_EVENT"
	EventPackaged        EventKind = "ORDER_PACKAGED_EVENT"
	EventShipped         EventKind = "ORDER_SHIPPED_EVENT"
	EventDelivered       EventKind = "ORDER_DELIVERED_EVENT"
	EventCanceled        EventKind = "ORDER_CANCELED_EVENT"
)

// CreationEventKind is the event kind that creates a new order aggregate when
// no aggregate exists yet.
const CreationEventKind = EventOrderCreated

// EventKinds returns all valid event kinds.
func EventKinds() []EventKind {
	return []EventKind{
		EventOrderCreated,
		EventOrderPlaced,
		EventStockDepleted,
		EventStockAllocated,
		EventPaymentRejected,
		EventPaymentAccepted,
		EventFulfilled,
		EventPackaged,
		EventShipped,
		EventDelivered,
		EventCanceled,
	}
}

// validEventKinds supports O(1) membership checks.
var validEventKinds = func() map[EventKind]struct{} {
	m := make(map[EventKind]struct{}, len(EventKinds()))
	for _, k := range EventKinds() {
		m[k] = struct{}{}
	}
	return m
}()

// Validate checks that the event kind is a member of the closed enumeration.
func (k EventKind) Validate() error {
	if _, ok := validEventKinds[k]; !ok {
		return errors.Wrap(
			ErrInvalidOrderArguments,
			fmt.Sprintf("%q is not a valid order event kind", string(k)),
		)
	}
	return nil
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	return string(k)
}

// EventData carries the order fields transported with an event. OrderID is
// mandatory; the remaining fields are present only on creation events.
type EventData struct {
	OrderID string  `json:"orderId"`
	SKU     string  `json:"sku,omitempty"`
	Units   int     `json:"units,omitempty"`
	Price   float64 `json:"price,omitempty"`
	UserID  string  `json:"userId,omitempty"`
}

// OrderEvent is an immutable fact about an order. A fact is produced once per
// real-world occurrence; redelivery must never yield a second durable record,
// which the event log enforces through its (order id, event kind) key.
type OrderEvent struct {
	Kind      EventKind `json:"eventKind"`
	Data      EventData `json:"eventData"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the invariants every event must satisfy regardless of kind:
// a valid kind, a well-formed order id, and well-formed optional fields when
// they are present.
func (e *OrderEvent) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}

	err := validation.ValidateStruct(&e.Data,
		validation.Field(&e.Data.OrderID, validation.Required, customValidation.Identifier),
		validation.Field(&e.Data.SKU, customValidation.Identifier),
		validation.Field(&e.Data.Units, validation.Min(1)),
		validation.Field(&e.Data.Price, validation.Min(0.0)),
		validation.Field(&e.Data.UserID, customValidation.Identifier),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidOrderArguments, err.Error())
	}
	return nil
}

// ValidateForCreation checks the additional fields a creation event must
// carry to build a complete order aggregate.
func (e *OrderEvent) ValidateForCreation() error {
	if err := e.Validate(); err != nil {
		return err
	}

	err := validation.ValidateStruct(&e.Data,
		validation.Field(&e.Data.SKU, validation.Required),
		validation.Field(&e.Data.Units, validation.Required),
		validation.Field(&e.Data.UserID, validation.Required),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidOrderArguments, err.Error())
	}
	return nil
}

// NewOrder builds the initial order aggregate from a creation event.
// The returned order starts in StatusCreated.
func (e *OrderEvent) NewOrder(now time.Time) *Order {
	return &Order{
		ID:        e.Data.OrderID,
		Status:    StatusCreated,
		SKU:       e.Data.SKU,
		Units:     e.Data.Units,
		Price:     e.Data.Price,
		UserID:    e.Data.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
