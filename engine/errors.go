/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine failures in one place. Every error here is recoverable and
  user-facing; an operation that fails leaves the snapshot untouched and the
  caller surfaces the message verbatim.

ERROR CATEGORIES:
  1. Validation errors    - malformed input, caught before any mutation
  2. Insufficient stock   - a consuming operation needs more than is available
  3. Not found            - bean/product/invoice/asset missing by name or id
  4. Business rule        - e.g. deleting a store item that still has stock
  5. Persistence          - the load/save collaborator failed

USAGE:
  if errors.Is(err, engine.ErrInsufficientStock) { ... }

  var short *engine.InsufficientStockError
  if errors.As(err, &short) {
      fmt.Println(short.Item, short.Available, short.Requested)
  }
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientStock is returned when a roast, blend or sale needs more
	// quantity than is available. Strict: no partial fulfillment.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound is returned when a record referenced by name or id is missing.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule is returned when an otherwise well-formed request breaks
	// a business constraint.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrPersistence is returned when the snapshot store fails to load or save.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry context for the user-facing message
// =============================================================================

// ValidationError reports a malformed field before any mutation happened.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports the shortfall context.
type InsufficientStockError struct {
	Item      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %q: %s kg available, %s kg requested",
		e.Item, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError reports what kind of record was missing and the key used.
type NotFoundError struct {
	Kind string // "green bean", "product", "invoice", ...
	Key  string // name or id
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// BusinessRuleError reports a violated constraint.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

func (e *BusinessRuleError) Unwrap() error { return ErrBusinessRule }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the failure is caused by the request itself
// rather than the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBusinessRule)
}

// IsNotFound reports whether the failure is a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
