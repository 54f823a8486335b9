package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/postgres"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresReminderLedger_HasSent(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	occID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(occID.String(), 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(occID.String(), 3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	l := postgres.NewPostgresReminderLedger(db, nil)

	sent, err := l.HasSent(context.Background(), occID, domain.ReminderWindow(7))
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = l.HasSent(context.Background(), occID, domain.ReminderWindow(3))
	require.NoError(t, err)
	assert.False(t, sent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReminderLedger_MarkSent(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	occID := uuid.New()
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (occurrence_id, window_days) DO NOTHING")).
		WithArgs(occID.String(), 7, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (occurrence_id, window_days) DO NOTHING")).
		WithArgs(occID.String(), 7, at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := postgres.NewPostgresReminderLedger(db, nil)
	require.NoError(t, l.MarkSent(context.Background(), occID, domain.ReminderWindow(7), at))
	require.NoError(t, l.MarkSent(context.Background(), occID, domain.ReminderWindow(7), at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReminderLedger_Errors(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("connection reset"))
	mock.ExpectExec("INSERT INTO reminder_ledger").WillReturnError(newPgError("23503", "reminder_ledger_occurrence_id_fkey"))

	l := postgres.NewPostgresReminderLedger(db, nil)

	_, err = l.HasSent(context.Background(), uuid.New(), domain.ReminderWindow(3))
	assert.Error(t, err)

	err = l.MarkSent(context.Background(), uuid.New(), domain.ReminderWindow(3), time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "reminder_ledger_occurrence_id_fkey")
}
