package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/google/uuid"
)

// CleanupResult reports what a cleanup sweep removed.
type CleanupResult struct {
	OccurrencesRemoved int `json:"occurrences_removed"`
	MeetingsRemoved    int `json:"meetings_removed"`
}

// MeetingStore defines the interface for meeting and occurrence persistence.
// The reminder engine only reads through it; cleanup is the only writer
// besides meeting creation.
type MeetingStore interface {
	// Create saves a new meeting together with its occurrences.
	// Returns ErrInvalidEntity if the meeting fails validation.
	Create(ctx context.Context, meeting *domain.Meeting) error

	// GetByID retrieves a meeting with all of its occurrences.
	// Returns ErrMeetingNotFound if the meeting does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)

	// FindOccurrencesBetween returns every occurrence with from <= date < to,
	// ordered by date. Each element pairs the occurrence with a snapshot of
	// its meeting taken in the same read.
	FindOccurrencesBetween(ctx context.Context, from, to time.Time) ([]domain.ScheduledOccurrence, error)

	// FindOccurrencesByParticipant returns occurrences on or after from for
	// meetings where the participant is mentor or mentee, ordered by date.
	FindOccurrencesByParticipant(
		ctx context.Context,
		participantID uuid.UUID,
		from time.Time,
	) ([]domain.ScheduledOccurrence, error)

	// DeleteOccurrencesBefore removes occurrences dated strictly before cutoff
	// and any meeting left without occurrences. Later occurrences of the
	// same meetings are kept.
	DeleteOccurrencesBefore(ctx context.Context, cutoff time.Time) (CleanupResult, error)

	// WithTx returns a new MeetingStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) MeetingStore
}
