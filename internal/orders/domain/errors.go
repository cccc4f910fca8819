// Package domain defines the order aggregate, its lifecycle events, and the
// status transition rules between them.
package domain

import (
	"github.com/allisson/ordersync/internal/errors"
)

// Order-specific error definitions. Each error is either transient (retry may
// succeed) or non-transient (the caller must acknowledge, not retry).
var (
	// ErrOrderNotFound indicates the order does not exist in the store.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrOrderAlreadyExists indicates an order with the same id is already stored.
	ErrOrderAlreadyExists = errors.Wrap(errors.ErrConflict, "order already exists")

	// ErrInvalidOrderArguments indicates order or event fields failed validation.
	// Non-transient: the payload will not become valid on redelivery.
	ErrInvalidOrderArguments = errors.Wrap(errors.ErrInvalidInput, "invalid order arguments")

	// ErrForbiddenStatusTransition indicates the event kind can never apply to
	// the order's current status. It signals a causally-impossible or stale
	// delivery and warrants investigation, not a retry.
	ErrForbiddenStatusTransition = errors.Wrap(errors.ErrConflict, "forbidden order status transition")

	// ErrRedundantStatusTransition indicates the order already holds the status
	// the event targets. Safe to acknowledge.
	ErrRedundantStatusTransition = errors.Wrap(errors.ErrConflict, "redundant order status transition")

	// ErrNotReadyStatusTransition indicates a causally-prior event has not been
	// observed yet. Transient: the caller should redeliver after backoff.
	ErrNotReadyStatusTransition = errors.MarkTransient(
		errors.New("order not ready for status transition"),
	)

	// ErrDuplicateEventAppend indicates a fact with the same (order id, event
	// kind) key is already durably recorded. The original write is
	// authoritative; safe to acknowledge.
	ErrDuplicateEventAppend = errors.Wrap(errors.ErrConflict, "order event already recorded")
)
