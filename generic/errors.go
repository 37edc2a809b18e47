/*
errors.go - Shared error types for the fleet engine

PURPOSE:
  Sentinel errors shared across packages, plus helpers the HTTP layer uses
  to map errors onto status codes. Domain packages (roster, certification,
  factory) declare their own sentinels and register them here through
  their Unwrap chains, so callers only need errors.Is().

ERROR CATEGORIES:
  1. Validation errors - Malformed input (bad codes, inverted ranges)
  2. Lookup errors - Missing pilots, records, categories

USAGE:
  if errors.Is(err, generic.ErrValidation) {
      // 400
  }

SEE ALSO:
  - roster/errors.go: InvalidCodeError
  - certification/errors.go: lookup errors
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every client-input error.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is the root of every missing-resource error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = &wrapped{msg: "invalid period: end before start", root: ErrValidation}
)

// wrapped lets a package-level sentinel also match a category root.
type wrapped struct {
	msg  string
	root error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.root }

// NewValidationError declares a sentinel that matches ErrValidation.
func NewValidationError(msg string) error {
	return &wrapped{msg: msg, root: ErrValidation}
}

// NewNotFoundError declares a sentinel that matches ErrNotFound.
func NewNotFoundError(msg string) error {
	return &wrapped{msg: msg, root: ErrNotFound}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
