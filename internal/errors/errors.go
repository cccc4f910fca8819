// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Every error in this application is either
// transient (expected to resolve on retry) or non-transient (retrying cannot
// change the outcome); callers branch on that flag to decide between redelivery
// and acknowledgement.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates an unexpected storage or transport fault.
	// It is transient: the operation may succeed when retried.
	ErrUnavailable = MarkTransient(errors.New("service unavailable"))
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// transientError marks an error chain as retryable.
type transientError struct {
	err error
}

// Error returns the message of the wrapped error.
func (e *transientError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the wrapped error so Is/As keep working through the marker.
func (e *transientError) Unwrap() error {
	return e.err
}

// Transient reports that this error is expected to resolve on retry.
func (e *transientError) Transient() bool {
	return true
}

// MarkTransient wraps an error so IsTransient reports true for it.
// Returns nil if err is nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether any error in err's tree is marked transient.
// Callers must redeliver/backoff on transient failures and acknowledge
// everything else.
func IsTransient(err error) bool {
	for err != nil {
		if t, ok := err.(interface{ Transient() bool }); ok && t.Transient() {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
