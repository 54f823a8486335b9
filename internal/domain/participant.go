package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Participant
var (
	ErrEmptyParticipantID = errors.New("participant ID cannot be empty")
	ErrEmptyName          = errors.New("participant name cannot be empty")
)

// Participant is a mentor or mentee as known to the participant directory.
// Email may be empty: such a participant resolves but cannot be notified.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewParticipant creates a Participant with a fresh ID.
// Returns an error if validation fails.
func NewParticipant(name, email string) (*Participant, error) {
	now := time.Now().UTC()
	p := &Participant{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Participant has valid data.
func (p *Participant) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyParticipantID
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}

	if p.Email != "" && !validateEmailFormat(p.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// HasEmail reports whether the participant can receive email.
func (p *Participant) HasEmail() bool {
	return strings.TrimSpace(p.Email) != ""
}

// DisplayName returns the participant's name, or fallback when it is blank.
func (p *Participant) DisplayName(fallback string) string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return fallback
	}
	return strings.TrimSpace(p.Name)
}

// NormalizeEmail trims and lowercases an address for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailFormat performs basic validation of email format:
// a non-empty local part, a single @, and a dotted domain.
func validateEmailFormat(email string) bool {
	local, domainPart, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domainPart, "@") {
		return false
	}

	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dot := strings.Index(domainPart, ".")
	if dot <= 0 || strings.HasSuffix(domainPart, ".") {
		return false
	}

	return !strings.ContainsAny(email, " \t\r\n")
}

// ValidEmail reports whether email looks like a deliverable address.
func ValidEmail(email string) bool {
	return validateEmailFormat(strings.TrimSpace(email))
}
