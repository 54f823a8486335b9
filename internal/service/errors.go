package service

import (
	"errors"
	"fmt"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrParticipantNotFound indicates that a referenced participant does
	// not exist in the directory.
	// API layer should map this to HTTP 404 Not Found.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrMeetingNotFound indicates that the meeting does not exist.
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrEmailTaken indicates that another participant already uses the email.
	// API layer should map this to HTTP 409 Conflict.
	ErrEmailTaken = errors.New("participant email already registered")

	// ErrInvalidParticipant wraps domain validation failures for participants.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrInvalidMeeting wraps domain validation failures for meetings.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidMeeting = errors.New("invalid meeting")
)

// MeetingServiceError wraps errors from the meeting service with context.
type MeetingServiceError struct {
	// Operation is the operation that failed (e.g., "create_meeting")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for MeetingServiceError.
func (e *MeetingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meeting service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("meeting service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *MeetingServiceError) Unwrap() error {
	return e.Err
}

// NewMeetingServiceError creates a new MeetingServiceError.
// It returns known sentinel errors directly without wrapping.
func NewMeetingServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrParticipantNotFound), errors.Is(err, store.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, ErrMeetingNotFound), errors.Is(err, store.ErrMeetingNotFound):
		return ErrMeetingNotFound
	case errors.Is(err, ErrEmailTaken), errors.Is(err, store.ErrEmailExists):
		return ErrEmailTaken
	}

	return &MeetingServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
