// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/ordersync/internal/errors"
)

// MinIdentifierLength is the minimum length for business identifiers
// (order ids, SKUs, user ids) accepted on the wire.
const MinIdentifierLength = 4

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Identifier validates business identifiers: non-blank, no surrounding
// whitespace, and at least MinIdentifierLength characters.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		trimmed := strings.TrimSpace(s)
		return trimmed == s && len(trimmed) >= MinIdentifierLength
	},
	validation.NewError(
		"validation_identifier",
		"must be at least 4 characters without surrounding whitespace",
	),
)
