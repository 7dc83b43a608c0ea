package credits

import (
	"errors"
	"fmt"
)

// ErrInvalidPlan signals a plan value outside the closed tier enumeration.
var ErrInvalidPlan = errors.New("invalid plan")

// InsufficientCreditsError is a business-rule refusal: the user's remaining
// daily allotment cannot cover the requested amount. It is not retryable
// until the user acquires more credits, and it carries the numbers the
// caller needs to render an upgrade prompt.
type InsufficientCreditsError struct {
	Required  int
	Remaining int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d (short %d)",
		e.Required, e.Remaining, e.Shortfall())
}

// Shortfall returns how many credits the user is missing.
func (e *InsufficientCreditsError) Shortfall() int {
	return e.Required - e.Remaining
}

// StorageError wraps a failure to reach the backing store. It is transient:
// the whole read is safe to retry. Deductions must not be blindly retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credit store unavailable (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsInsufficient reports whether err is an InsufficientCreditsError and
// returns it if so.
func IsInsufficient(err error) (*InsufficientCreditsError, bool) {
	var ie *InsufficientCreditsError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
