package roster

import (
	"fmt"

	"github.com/warp/fleet-engine/generic"
)

var (
	// ErrInvalidCodeFormat is returned when a code does not match RP{n}/{yyyy}
	// or names a period number outside the roster year.
	ErrInvalidCodeFormat = generic.NewValidationError("invalid roster period code format")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = generic.NewValidationError("invalid roster configuration")
)

// InvalidCodeError carries the rejected code.
type InvalidCodeError struct {
	Code   string
	Reason string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid roster period code %q: %s", e.Code, e.Reason)
}

func (e *InvalidCodeError) Unwrap() error {
	return ErrInvalidCodeFormat
}
