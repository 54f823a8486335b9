package reminder

import (
	"errors"
	"fmt"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
)

var (
	// ErrStoreUnavailable is returned when the meeting store cannot be read.
	// A run that fails this way has sent nothing.
	ErrStoreUnavailable = errors.New("meeting store unavailable")

	// ErrCatchUpRequiresLedger is returned by NewEngine when catch-up
	// selection is enabled without a sent ledger.
	ErrCatchUpRequiresLedger = errors.New("catch-up requires a reminder ledger")

	// ErrParticipantNotFound indicates that no participant matches the
	// requested email.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrOccurrenceNotFound indicates that the meeting or occurrence does
	// not exist.
	ErrOccurrenceNotFound = errors.New("meeting occurrence not found")

	// ErrInvalidRecipient is returned when a test email address is malformed.
	ErrInvalidRecipient = errors.New("invalid recipient email")
)

// EngineError wraps errors from the reminder engine with context.
type EngineError struct {
	// Operation is the operation that failed (e.g., "run", "cleanup")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for EngineError.
func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder engine %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reminder engine %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates an EngineError.
// Known sentinel errors are mapped to the engine's own sentinels.
func NewEngineError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, store.ErrMeetingNotFound):
		return ErrOccurrenceNotFound
	}

	return &EngineError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
