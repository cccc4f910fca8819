package domain

import (
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/ordersync/internal/errors"
	customValidation "github.com/allisson/ordersync/internal/validation"
)

// Status represents the lifecycle status of an order. The set of statuses is
// closed: every status an order can hold appears below, and status only ever
// changes through an accepted transition (see transition.go).
type Status string

const (
	StatusCreated         Status = "ORDER_CREATED_STATUS"
	StatusStockDepleted   Status = "ORDER_STOCK_DEPLETED_STATUS"
	StatusStockAllocated  Status = "ORDER_STOCK_ALLOCATED_STATUS"
	StatusPaymentRejected Status = "ORDER_PAYMENT_REJECTED_STATUS"
	StatusPaymentAccepted Status = "ORDER_PAYMENT_ACCEPTED_STATUS"
	StatusFulfilled       Status = "ORDER_FULFILLED_STATUS"
	StatusPackaged        Status = "ORDER_PACKAGED_STATUS"
	StatusShipped         Status = "ORDER_SHIPPED_STATUS"
	StatusDelivered       Status = "ORDER_DELIVERED_STATUS"
	StatusCanceled        Status = "ORDER_CANCELED_STATUS"
)

// Statuses returns all valid order statuses.
func Statuses() []Status {
	return []Status{
		StatusCreated,
		StatusStockDepleted,
		StatusStockAllocated,
		StatusPaymentRejected,
		StatusPaymentAccepted,
		StatusFulfilled,
		StatusPackaged,
		StatusShipped,
		StatusDelivered,
		StatusCanceled,
	}
}

// validStatuses supports O(1) membership checks.
var validStatuses = func() map[Status]struct{} {
	m := make(map[Status]struct{}, len(Statuses()))
	for _, s := range Statuses() {
		m[s] = struct{}{}
	}
	return m
}()

// Validate checks that the status is a member of the closed enumeration.
func (s Status) Validate() error {
	if _, ok := validStatuses[s]; !ok {
		return errors.Wrap(
			ErrInvalidOrderArguments,
			fmt.Sprintf("%q is not a valid order status", string(s)),
		)
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Order is the aggregate root for a purchase. It is mutated only through
// accepted status transitions and is never deleted.
type Order struct {
	// ID is the caller-supplied order identifier.
	ID string
	// Status is the current lifecycle status.
	Status Status
	// SKU identifies the purchased item.
	SKU string
	// Units is the purchased unit count.
	Units int
	// Price is the unit price.
	Price float64
	// UserID identifies the owning user.
	UserID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the order invariants that must hold for every persisted
// order: identifiers of at least four characters, a positive unit count, a
// non-negative price, and a valid status.
func (o *Order) Validate() error {
	if err := o.Status.Validate(); err != nil {
		return err
	}

	err := validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required, customValidation.Identifier),
		validation.Field(&o.SKU, validation.Required, customValidation.Identifier),
		validation.Field(&o.Units, validation.Required, validation.Min(1)),
		validation.Field(&o.Price, validation.Min(0.0)),
		validation.Field(&o.UserID, validation.Required, customValidation.Identifier),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidOrderArguments, err.Error())
	}
	return nil
}
