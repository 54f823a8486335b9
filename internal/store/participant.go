package store

import (
	"context"
	"database/sql"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/google/uuid"
)

// ParticipantStore is the participant directory: it resolves participant
// references to names and email addresses.
type ParticipantStore interface {
	// Create saves a new participant.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, participant *domain.Participant) error

	// GetByID retrieves a participant by ID.
	// Returns ErrParticipantNotFound if the participant does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)

	// GetByEmail retrieves a participant by email, ignoring case.
	// Returns ErrParticipantNotFound if no participant has that email.
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)

	// WithTx returns a new ParticipantStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ParticipantStore
}
