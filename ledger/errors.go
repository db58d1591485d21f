/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors - Bad or missing required input. Surfaced
     immediately to the caller, never retried.
  2. Store errors - Underlying persistence failures. Surfaced to the
     caller; the core does not retry or queue.

NOT AN ERROR:
  A missing part on lookup is an expected outcome (a freshly scanned
  unknown barcode is the common case). FindPart returns (nil, nil) for
  it; only store access failures produce an error.

USAGE:
  if ledger.IsValidation(err) {
      // 400 to the client
  }
  var se *ledger.StoreError
  if errors.As(err, &se) {
      // 500, store left unchanged
  }
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
	// ErrValidation is the root of all validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrStore is the root of all persistence failures.
	ErrStore = errors.New("store failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a bad or missing required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StoreError wraps an underlying persistence failure. The record in
// question is not considered saved; the caller may retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStore returns true if the error is a persistence failure.
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
