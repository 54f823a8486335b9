package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// PostgresParticipantStore implements the store.ParticipantStore interface
// using a PostgreSQL database as the storage backend.
type PostgresParticipantStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresParticipantStore creates a new PostgreSQL implementation of the ParticipantStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresParticipantStore(db store.DBTX, logger *slog.Logger) *PostgresParticipantStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresParticipantStore{
		db:     db,
		logger: logger.With(slog.String("component", "participant_store")),
	}
}

// Ensure PostgresParticipantStore implements store.ParticipantStore interface
var _ store.ParticipantStore = (*PostgresParticipantStore)(nil)

// WithTx implements store.ParticipantStore.WithTx
func (s *PostgresParticipantStore) WithTx(tx *sql.Tx) store.ParticipantStore {
	return &PostgresParticipantStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ParticipantStore.Create
// Returns store.ErrEmailExists if another participant already uses the email.
func (s *PostgresParticipantStore) Create(ctx context.Context, participant *domain.Participant) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := participant.Validate(); err != nil {
		log.Warn("participant validation failed during create",
			slog.String("error", err.Error()),
			slog.String("participant_id", participant.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var email sql.NullString
	if participant.HasEmail() {
		email = sql.NullString{String: domain.NormalizeEmail(participant.Email), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		participant.ID,
		participant.Name,
		email,
		participant.CreatedAt,
		participant.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("participant already exists",
				slog.String("participant_id", participant.ID.String()))
			return MapError(err)
		}
		log.Error("failed to create participant",
			slog.String("error", err.Error()),
			slog.String("participant_id", participant.ID.String()))
		return MapError(err)
	}

	log.Info("participant created successfully",
		slog.String("participant_id", participant.ID.String()))
	return nil
}

// GetByID implements store.ParticipantStore.GetByID
// Returns store.ErrParticipantNotFound if the participant does not exist.
func (s *PostgresParticipantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	return s.getOne(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM participants
		WHERE id = $1`, id)
}

// GetByEmail implements store.ParticipantStore.GetByEmail
// Matching ignores case and surrounding whitespace.
func (s *PostgresParticipantStore) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	return s.getOne(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM participants
		WHERE LOWER(email) = $1`, domain.NormalizeEmail(email))
}

func (s *PostgresParticipantStore) getOne(ctx context.Context, query string, arg any) (*domain.Participant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		p     domain.Participant
		email sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.Name,
		&email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("participant not found")
			return nil, store.ErrParticipantNotFound
		}
		log.Error("failed to get participant", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	p.Email = email.String
	return &p, nil
}
