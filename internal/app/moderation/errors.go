package moderation

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that no resource exists for the requested id.
var ErrNotFound = errors.New("resource not found")

// ValidationError reports malformed or missing input. Field names the
// offending input using its wire name (e.g. "url", "submittedBy.email").
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

// StoreError wraps a failure of the underlying resource store. Callers
// should not expose Err to clients.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("moderation: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
