package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// PostgresReminderLedger implements store.ReminderLedger in the
// reminder_ledger table.
type PostgresReminderLedger struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderLedger creates a ledger backed by PostgreSQL.
// If logger is nil, a default logger will be used.
func NewPostgresReminderLedger(db store.DBTX, logger *slog.Logger) *PostgresReminderLedger {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderLedger{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_ledger")),
	}
}

// Ensure PostgresReminderLedger implements store.ReminderLedger interface
var _ store.ReminderLedger = (*PostgresReminderLedger)(nil)

// WithTx returns a ledger bound to tx.
func (l *PostgresReminderLedger) WithTx(tx *sql.Tx) *PostgresReminderLedger {
	return &PostgresReminderLedger{db: tx, logger: l.logger}
}

// HasSent implements store.ReminderLedger.HasSent
func (l *PostgresReminderLedger) HasSent(
	ctx context.Context,
	occurrenceID uuid.UUID,
	window domain.ReminderWindow,
) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reminder_ledger
			WHERE occurrence_id = $1 AND window_days = $2
		)`, occurrenceID, window.Days(),
	).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to check reminder ledger",
			slog.String("error", err.Error()),
			slog.String("occurrence_id", occurrenceID.String()),
			slog.Int("window_days", window.Days()))
		return false, MapError(err)
	}
	return exists, nil
}

// MarkSent implements store.ReminderLedger.MarkSent
// An existing entry keeps its original timestamp.
func (l *PostgresReminderLedger) MarkSent(
	ctx context.Context,
	occurrenceID uuid.UUID,
	window domain.ReminderWindow,
	at time.Time,
) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO reminder_ledger (occurrence_id, window_days, sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (occurrence_id, window_days) DO NOTHING`,
		occurrenceID, window.Days(), at.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to record reminder",
			slog.String("error", err.Error()),
			slog.String("occurrence_id", occurrenceID.String()),
			slog.Int("window_days", window.Days()))
		return MapError(err)
	}
	return nil
}
