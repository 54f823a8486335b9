package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// occurrenceColumns selects an occurrence joined with its meeting. The mentee
// list is aggregated in the same statement so every row is one snapshot.
const occurrenceColumns = `
	o.id, o.occurs_at,
	m.id, m.mentor_id, m.time_of_day, m.duration_minutes,
	m.platform, m.agenda, m.link, m.created_at, m.updated_at,
	COALESCE((
		SELECT string_agg(mm.participant_id::text, ',' ORDER BY mm.position)
		FROM meeting_mentees mm
		WHERE mm.meeting_id = m.id
	), '') AS mentee_ids`

// PostgresMeetingStore implements the store.MeetingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMeetingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMeetingStore creates a new PostgreSQL implementation of the MeetingStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMeetingStore(db store.DBTX, logger *slog.Logger) *PostgresMeetingStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMeetingStore{
		db:     db,
		logger: logger.With(slog.String("component", "meeting_store")),
	}
}

// Ensure PostgresMeetingStore implements store.MeetingStore interface
var _ store.MeetingStore = (*PostgresMeetingStore)(nil)

// WithTx implements store.MeetingStore.WithTx
func (s *PostgresMeetingStore) WithTx(tx *sql.Tx) store.MeetingStore {
	return &PostgresMeetingStore{
		db:     tx,
		logger: s.logger,
	}
}

// inTx runs fn inside a transaction unless the store is already bound to one.
func (s *PostgresMeetingStore) inTx(ctx context.Context, fn func(ctx context.Context, txStore *PostgresMeetingStore) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &PostgresMeetingStore{db: tx, logger: s.logger})
	})
}

// Create implements store.MeetingStore.Create
// It inserts the meeting, its mentees and its occurrences atomically.
func (s *PostgresMeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := meeting.Validate(); err != nil {
		log.Warn("meeting validation failed during create",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err := s.inTx(ctx, func(ctx context.Context, tx *PostgresMeetingStore) error {
		_, err := tx.db.ExecContext(ctx, `
			INSERT INTO meetings (id, mentor_id, time_of_day, duration_minutes, platform, agenda, link, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			meeting.ID,
			meeting.MentorID,
			meeting.TimeOfDay,
			meeting.DurationMinutes,
			meeting.Platform,
			meeting.Agenda,
			meeting.Link,
			meeting.CreatedAt,
			meeting.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		for i, menteeID := range meeting.MenteeIDs {
			if _, err := tx.db.ExecContext(ctx, `
				INSERT INTO meeting_mentees (meeting_id, participant_id, position)
				VALUES ($1, $2, $3)`,
				meeting.ID, menteeID, i,
			); err != nil {
				return MapError(err)
			}
		}

		for _, occ := range meeting.Occurrences {
			if _, err := tx.db.ExecContext(ctx, `
				INSERT INTO meeting_occurrences (id, meeting_id, occurs_at)
				VALUES ($1, $2, $3)`,
				occ.ID, meeting.ID, occ.Date,
			); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", meeting.ID.String()))
		return err
	}

	log.Info("meeting created successfully",
		slog.String("meeting_id", meeting.ID.String()),
		slog.Int("occurrences", len(meeting.Occurrences)))
	return nil
}

// GetByID implements store.MeetingStore.GetByID
// Returns store.ErrMeetingNotFound if the meeting does not exist.
func (s *PostgresMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving meeting by ID", slog.String("meeting_id", id.String()))

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+occurrenceColumns+`
		FROM meetings m
		JOIN meeting_occurrences o ON o.meeting_id = m.id
		WHERE m.id = $1
		ORDER BY o.occurs_at, o.id`, id)
	if err != nil {
		log.Error("failed to query meeting",
			slog.String("error", err.Error()),
			slog.String("meeting_id", id.String()))
		return nil, MapError(err)
	}

	scheduled, err := s.scanOccurrences(rows)
	if err != nil {
		return nil, err
	}

	if len(scheduled) == 0 {
		log.Debug("meeting not found", slog.String("meeting_id", id.String()))
		return nil, store.ErrMeetingNotFound
	}

	meeting := scheduled[0].Meeting
	for _, so := range scheduled {
		meeting.Occurrences = append(meeting.Occurrences, so.Occurrence)
	}
	return &meeting, nil
}

// FindOccurrencesBetween implements store.MeetingStore.FindOccurrencesBetween
func (s *PostgresMeetingStore) FindOccurrencesBetween(
	ctx context.Context,
	from, to time.Time,
) ([]domain.ScheduledOccurrence, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+occurrenceColumns+`
		FROM meeting_occurrences o
		JOIN meetings m ON m.id = o.meeting_id
		WHERE o.occurs_at >= $1 AND o.occurs_at < $2
		ORDER BY o.occurs_at, o.id`, from, to)
	if err != nil {
		log.Error("failed to query occurrences in range",
			slog.String("error", err.Error()),
			slog.Time("from", from),
			slog.Time("to", to))
		return nil, MapError(err)
	}

	scheduled, err := s.scanOccurrences(rows)
	if err != nil {
		return nil, err
	}

	log.Debug("found occurrences in range",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Int("count", len(scheduled)))
	return scheduled, nil
}

// FindOccurrencesByParticipant implements store.MeetingStore.FindOccurrencesByParticipant
func (s *PostgresMeetingStore) FindOccurrencesByParticipant(
	ctx context.Context,
	participantID uuid.UUID,
	from time.Time,
) ([]domain.ScheduledOccurrence, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+occurrenceColumns+`
		FROM meeting_occurrences o
		JOIN meetings m ON m.id = o.meeting_id
		WHERE o.occurs_at >= $2
		  AND (m.mentor_id = $1 OR EXISTS (
			SELECT 1 FROM meeting_mentees mm
			WHERE mm.meeting_id = m.id AND mm.participant_id = $1
		  ))
		ORDER BY o.occurs_at, o.id`, participantID, from)
	if err != nil {
		log.Error("failed to query occurrences by participant",
			slog.String("error", err.Error()),
			slog.String("participant_id", participantID.String()))
		return nil, MapError(err)
	}

	return s.scanOccurrences(rows)
}

// DeleteOccurrencesBefore implements store.MeetingStore.DeleteOccurrencesBefore
// The affected meetings are locked first, then occurrences and emptied
// meetings are removed in one statement, so a concurrent reader sees either
// the whole meeting or none of the removed rows.
func (s *PostgresMeetingStore) DeleteOccurrencesBefore(ctx context.Context, cutoff time.Time) (store.CleanupResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result store.CleanupResult
	err := s.inTx(ctx, func(ctx context.Context, tx *PostgresMeetingStore) error {
		lockRows, err := tx.db.QueryContext(ctx, `
			SELECT m.id FROM meetings m
			WHERE EXISTS (
				SELECT 1 FROM meeting_occurrences o
				WHERE o.meeting_id = m.id AND o.occurs_at < $1
			)
			FOR UPDATE`, cutoff)
		if err != nil {
			return MapError(err)
		}
		if err := lockRows.Close(); err != nil {
			return MapError(err)
		}

		return tx.db.QueryRowContext(ctx, `
			WITH expired AS (
				DELETE FROM meeting_occurrences
				WHERE occurs_at < $1
				RETURNING meeting_id
			), emptied AS (
				DELETE FROM meetings m
				WHERE m.id IN (SELECT meeting_id FROM expired)
				  AND NOT EXISTS (
					SELECT 1 FROM meeting_occurrences o
					WHERE o.meeting_id = m.id AND o.occurs_at >= $1
				  )
				RETURNING m.id
			)
			SELECT (SELECT COUNT(*) FROM expired), (SELECT COUNT(*) FROM emptied)`,
			cutoff,
		).Scan(&result.OccurrencesRemoved, &result.MeetingsRemoved)
	})
	if err != nil {
		log.Error("failed to delete past occurrences",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return store.CleanupResult{}, fmt.Errorf("%w: %w", store.ErrDeleteFailed, err)
	}

	log.Info("deleted past occurrences",
		slog.Time("cutoff", cutoff),
		slog.Int("occurrences_removed", result.OccurrencesRemoved),
		slog.Int("meetings_removed", result.MeetingsRemoved))
	return result, nil
}

// scanOccurrences reads rows selected with occurrenceColumns and closes them.
func (s *PostgresMeetingStore) scanOccurrences(rows *sql.Rows) (_ []domain.ScheduledOccurrence, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	scheduled := []domain.ScheduledOccurrence{}
	for rows.Next() {
		var (
			so        domain.ScheduledOccurrence
			menteeIDs string
		)
		if err := rows.Scan(
			&so.Occurrence.ID,
			&so.Occurrence.Date,
			&so.Meeting.ID,
			&so.Meeting.MentorID,
			&so.Meeting.TimeOfDay,
			&so.Meeting.DurationMinutes,
			&so.Meeting.Platform,
			&so.Meeting.Agenda,
			&so.Meeting.Link,
			&so.Meeting.CreatedAt,
			&so.Meeting.UpdatedAt,
			&menteeIDs,
		); err != nil {
			s.logger.Error("failed to scan occurrence row", slog.String("error", err.Error()))
			return nil, err
		}

		so.Occurrence.MeetingID = so.Meeting.ID
		so.Meeting.MenteeIDs, err = parseUUIDList(menteeIDs)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, so)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return scheduled, nil
}

func parseUUIDList(csv string) ([]uuid.UUID, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
