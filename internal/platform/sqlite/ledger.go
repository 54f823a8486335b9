package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Ledger persists sent reminders in SQLite.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.ReminderLedger = (*Ledger)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the ledger at path and applies embedded migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer keeps WAL mode free of SQLITE_BUSY under concurrent sends.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Ledger{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_ledger")),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Close closes the SQLite handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// HasSent implements store.ReminderLedger.HasSent
func (l *Ledger) HasSent(ctx context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow) (bool, error) {
	var exists int
	err := l.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reminder_ledger WHERE occurrence_id = ? AND window_days = ?)`,
		occurrenceID.String(), window.Days(),
	).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to check reminder ledger",
			slog.String("error", err.Error()),
			slog.String("occurrence_id", occurrenceID.String()))
		return false, mapError(err)
	}
	return exists == 1, nil
}

// MarkSent implements store.ReminderLedger.MarkSent
func (l *Ledger) MarkSent(ctx context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow, at time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO reminder_ledger (occurrence_id, window_days, sent_at) VALUES (?, ?, ?)
		 ON CONFLICT (occurrence_id, window_days) DO NOTHING`,
		occurrenceID.String(), window.Days(), toMillis(at),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to record reminder",
			slog.String("error", err.Error()),
			slog.String("occurrence_id", occurrenceID.String()))
		return mapError(err)
	}
	return nil
}

// SentAt returns when the pair was recorded.
// Returns store.ErrNotFound if it was never recorded.
func (l *Ledger) SentAt(ctx context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow) (time.Time, error) {
	var millis int64
	err := l.db.QueryRowContext(ctx,
		`SELECT sent_at FROM reminder_ledger WHERE occurrence_id = ? AND window_days = ?`,
		occurrenceID.String(), window.Days(),
	).Scan(&millis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, store.ErrNotFound
		}
		return time.Time{}, mapError(err)
	}
	return fromMillis(millis), nil
}

// Prune removes entries recorded before cutoff and returns how many were
// removed. The ledger does not share a database with meetings, so the
// cleanup sweep calls this in place of a cascading delete.
func (l *Ledger) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM reminder_ledger WHERE sent_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	logger.FromContextOrDefault(ctx, l.logger).Info("pruned reminder ledger",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", n))
	return int(n), nil
}

func mapError(err error) error {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return fmt.Errorf("%w: %v", store.ErrTransactionFailed, err)
	case sqlite3lib.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return err
}
