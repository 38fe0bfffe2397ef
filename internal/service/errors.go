package service

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change is not allowed
// from the reservation's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Reasons reported by CheckAvailability when a window is not bookable.
const (
	ReasonConflict = "conflict"
	ReasonClosed   = "closed"
)

// ValidationError reports a rejected request field. It maps to a 400 at
// the API boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
