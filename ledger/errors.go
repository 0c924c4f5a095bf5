/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place. Two distinct families:

  1. FieldError  - user input errors, scoped to a single input field,
                   accumulated across a request and returned together.
                   A caller sees ALL violations up front, not one at a
                   time across resubmissions.
  2. Hard errors - sentinel and structured errors for broken invariants
                   (currency mismatch inside arithmetic) and missing
                   records. These short-circuit.

  Permission failures never reach this package: the API layer rejects
  unauthorized callers before any validation runs.

SEE ALSO:
  - create.go: Accumulates FieldErrors during validation
  - money.go: Raises *CurrencyMismatchError from arithmetic
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOrderNotFound is returned when a referenced order doesn't exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCheckoutNotFound is returned when a referenced checkout doesn't exist.
	ErrCheckoutNotFound = errors.New("checkout not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnknownOwner is returned when an OwnerRef carries an unknown kind.
	ErrUnknownOwner = errors.New("owner must be an order or a checkout")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCheckoutNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// =============================================================================
// CURRENCY MISMATCH - Fatal arithmetic invariant violation
// =============================================================================

// CurrencyMismatchError reports arithmetic attempted across currencies.
// Input validation runs before any arithmetic, so this surfacing at all
// means a caller skipped validation.
type CurrencyMismatchError struct {
	Op    string
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch in %s: %s vs %s", e.Op, e.Left, e.Right)
}

// =============================================================================
// FIELD ERRORS - Accumulated user input errors
// =============================================================================

// ErrorCode classifies a field-scoped validation failure.
type ErrorCode string

const (
	CodeIncorrectCurrency   ErrorCode = "INCORRECT_CURRENCY"
	CodeMetadataKeyRequired ErrorCode = "METADATA_KEY_REQUIRED"
	CodeInvalid             ErrorCode = "INVALID"
)

// FieldError is a single field-scoped validation failure.
// Field names match the input field names callers supplied
// (amountAuthorized, metadata, externalUrl, ...).
type FieldError struct {
	Field   string
	Message string
	Code    ErrorCode
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}
