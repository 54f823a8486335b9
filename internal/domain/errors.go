package domain

import (
	"errors"
	"fmt"
)

// Validation sentinels. ValidationError wraps one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRecurrence is returned when a recurrence rule cannot be parsed
	// or produces no dates.
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")

	// ErrInvalidWindow is returned when a reminder window is not a positive
	// number of days.
	ErrInvalidWindow = errors.New("invalid reminder window")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil, ErrValidation is wrapped.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
