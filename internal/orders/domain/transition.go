package domain

import (
	"fmt"

	"github.com/allisson/ordersync/internal/errors"
)

// outcomeKind classifies a cell of the transition table.
type outcomeKind int

const (
	// outcomeForbid rejects the event: it can never apply from this status.
	// Zero value on purpose: a missing cell forbids instead of succeeding.
	outcomeForbid outcomeKind = iota
	// outcomeSucceed moves the order to the cell's target status.
	outcomeSucceed
	// outcomeRedundant rejects the event: the target status already holds.
	outcomeRedundant
	// outcomeNotReady rejects the event: a causally-prior event is missing.
	outcomeNotReady
)

// outcome is one cell of the transition table.
type outcome struct {
	kind outcomeKind
	next Status
}

func succeedTo(next Status) outcome { return outcome{kind: outcomeSucceed, next: next} }

var (
	forbidden = outcome{kind: outcomeForbid}
	redundant = outcome{kind: outcomeRedundant}
	notReady  = outcome{kind: outcomeNotReady}
)

// transitionTable is the total transition function: one row per status, one
// column per event kind, exactly one outcome per cell. Totality is asserted
// by tests over the full 10x11 space; keep every cell explicit.
//
// Lifecycle shape: CREATED branches to STOCK_DEPLETED (dead end) or
// STOCK_ALLOCATED, then PAYMENT_REJECTED (dead end) or PAYMENT_ACCEPTED, then
// FULFILLED -> PACKAGED -> SHIPPED -> DELIVERED. Cancellation is accepted
// from every status except CANCELED itself, including after delivery.
var transitionTable = map[Status]map[EventKind]outcome{
	StatusCreated: {
		EventOrderCreated:    redundant,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   succeedTo(StatusStockDepleted),
		EventStockAllocated:  succeedTo(StatusStockAllocated),
		EventPaymentRejected: notReady,
		EventPaymentAccepted: notReady,
		EventFulfilled:       notReady,
		EventPackaged:        notReady,
		EventShipped:         notReady,
		EventDelivered:       notReady,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusStockDepleted: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   redundant,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        forbidden,
		EventShipped:         forbidden,
		EventDelivered:       forbidden,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusStockAllocated: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  redundant,
		EventPaymentRejected: succeedTo(StatusPaymentRejected),
		EventPaymentAccepted: succeedTo(StatusPaymentAccepted),
		EventFulfilled:       notReady,
		EventPackaged:        notReady,
		EventShipped:         notReady,
		EventDelivered:       notReady,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusPaymentRejected: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: redundant,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        forbidden,
		EventShipped:         forbidden,
		EventDelivered:       forbidden,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusPaymentAccepted: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: redundant,
		EventFulfilled:       succeedTo(StatusFulfilled),
		EventPackaged:        notReady,
		EventShipped:         notReady,
		EventDelivered:       notReady,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusFulfilled: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       redundant,
		EventPackaged:        succeedTo(StatusPackaged),
		EventShipped:         notReady,
		EventDelivered:       notReady,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusPackaged: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        redundant,
		EventShipped:         succeedTo(StatusShipped),
		EventDelivered:       notReady,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusShipped: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        forbidden,
		EventShipped:         redundant,
		EventDelivered:       succeedTo(StatusDelivered),
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusDelivered: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        forbidden,
		EventShipped:         forbidden,
		EventDelivered:       redundant,
		EventCanceled:        succeedTo(StatusCanceled),
	},
	StatusCanceled: {
		EventOrderCreated:    forbidden,
		EventOrderPlaced:     forbidden,
		EventStockDepleted:   forbidden,
		EventStockAllocated:  forbidden,
		EventPaymentRejected: forbidden,
		EventPaymentAccepted: forbidden,
		EventFulfilled:       forbidden,
		EventPackaged:        forbidden,
		EventShipped:         forbidden,
		EventDelivered:       forbidden,
		EventCanceled:        redundant,
	},
}

// NextStatus computes the status an order in the current status moves to when
// the given event kind is observed. It is a pure function over the transition
// table. Rejections come back as classified errors:
//
//   - ErrInvalidOrderArguments: either input is outside its enumeration.
//   - ErrForbiddenStatusTransition: the event can never apply from this status.
//   - ErrRedundantStatusTransition: the target status already holds.
//   - ErrNotReadyStatusTransition: a causally-prior event has not arrived yet
//     (transient; the caller should redeliver after backoff).
func NextStatus(current Status, kind EventKind) (Status, error) {
	if err := current.Validate(); err != nil {
		return "", err
	}
	if err := kind.Validate(); err != nil {
		return "", err
	}

	out := transitionTable[current][kind]
	switch out.kind {
	case outcomeSucceed:
		return out.next, nil
	case outcomeRedundant:
		return "", errors.Wrap(
			ErrRedundantStatusTransition,
			fmt.Sprintf("event %s is redundant for an order in status %s", kind, current),
		)
	case outcomeNotReady:
		return "", errors.Wrap(
			ErrNotReadyStatusTransition,
			fmt.Sprintf("order in status %s is not ready for event %s", current, kind),
		)
	default:
		return "", errors.Wrap(
			ErrForbiddenStatusTransition,
			fmt.Sprintf("event %s can never apply to an order in status %s", kind, current),
		)
	}
}
