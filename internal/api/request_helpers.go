package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/api/shared"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
)

// pathUUID extracts a UUID path parameter.
func pathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// pathEmail extracts and checks the {email} path parameter, writing a 400
// response when it is not a valid address.
func pathEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Email parameter is required")
		return "", false
	}
	if !domain.ValidEmail(email) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid email address")
		return "", false
	}
	return email, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing a
// 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// HandleAPIError maps err to a status code and safe message and writes the
// response. fallback replaces the generic message for unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" && !errors.Is(err, reminder.ErrStoreUnavailable) {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
