package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/go-playground/validator/v10"
)

const genericErrorMessage = "An unexpected error occurred"

// errorRule pairs the sentinels of one failure class with what the client
// sees. Rules are checked in order and the first match wins.
type errorRule struct {
	match   []error
	status  int
	message string
}

var errorRules = []errorRule{
	{
		match:   []error{reminder.ErrParticipantNotFound, service.ErrParticipantNotFound, store.ErrParticipantNotFound},
		status:  http.StatusNotFound,
		message: "Participant not found",
	},
	{
		match:   []error{reminder.ErrOccurrenceNotFound},
		status:  http.StatusNotFound,
		message: "Meeting occurrence not found",
	},
	{
		match:   []error{service.ErrMeetingNotFound, store.ErrMeetingNotFound},
		status:  http.StatusNotFound,
		message: "Meeting not found",
	},
	{
		match:   []error{store.ErrNotFound},
		status:  http.StatusNotFound,
		message: "Not found",
	},
	{
		match:   []error{service.ErrEmailTaken, store.ErrEmailExists},
		status:  http.StatusConflict,
		message: "Email already exists",
	},
	{
		match:   []error{store.ErrDuplicate},
		status:  http.StatusConflict,
		message: "Already exists",
	},
	{
		match:   []error{reminder.ErrInvalidRecipient, domain.ErrInvalidEmail},
		status:  http.StatusBadRequest,
		message: "Invalid email address",
	},
	{
		match:   []error{domain.ErrInvalidID},
		status:  http.StatusBadRequest,
		message: "Invalid ID",
	},
	{
		match:   []error{service.ErrInvalidMeeting},
		status:  http.StatusBadRequest,
		message: "Invalid meeting data",
	},
	{
		match:   []error{service.ErrInvalidParticipant},
		status:  http.StatusBadRequest,
		message: "Invalid participant data",
	},
	{
		match:   []error{store.ErrInvalidEntity, domain.ErrValidation},
		status:  http.StatusBadRequest,
		message: "Invalid entity data",
	},
	{
		match:   []error{reminder.ErrStoreUnavailable},
		status:  http.StatusInternalServerError,
		message: "Meeting store unavailable",
	},
}

func classifyError(err error) (errorRule, bool) {
	if err == nil {
		return errorRule{}, false
	}
	for _, rule := range errorRules {
		for _, target := range rule.match {
			if errors.Is(err, target) {
				return rule, true
			}
		}
	}
	return errorRule{}, false
}

// MapErrorToStatusCode returns the HTTP status for err. Anything not
// recognised is a 500.
func MapErrorToStatusCode(err error) int {
	if rule, ok := classifyError(err); ok {
		return rule.status
	}
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes the error text itself.
func GetSafeErrorMessage(err error) string {
	if rule, ok := classifyError(err); ok {
		return rule.message
	}
	return genericErrorMessage
}

// SanitizeValidationError describes the first failed field of a validator
// error, e.g. "Invalid to: required field".
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}
	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "nefield":
		return "must differ"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
