package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempLedger(t *testing.T) *Ledger {
	t.Helper()

	l, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "  ", nil)
	assert.Error(t, err)
}

func TestLedger_MarkAndCheck(t *testing.T) {
	t.Parallel()

	l := openTempLedger(t)
	ctx := context.Background()
	occID := uuid.New()
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	sent, err := l.HasSent(ctx, occID, domain.ReminderWindow(7))
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, l.MarkSent(ctx, occID, domain.ReminderWindow(7), at))

	sent, err = l.HasSent(ctx, occID, domain.ReminderWindow(7))
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = l.HasSent(ctx, occID, domain.ReminderWindow(3))
	require.NoError(t, err)
	assert.False(t, sent, "windows are tracked separately")
}

func TestLedger_MarkSentKeepsFirstTimestamp(t *testing.T) {
	t.Parallel()

	l := openTempLedger(t)
	ctx := context.Background()
	occID := uuid.New()
	first := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, l.MarkSent(ctx, occID, domain.ReminderWindow(3), first))
	require.NoError(t, l.MarkSent(ctx, occID, domain.ReminderWindow(3), first.Add(time.Hour)))

	got, err := l.SentAt(ctx, occID, domain.ReminderWindow(3))
	require.NoError(t, err)
	assert.True(t, got.Equal(first))

	_, err = l.SentAt(ctx, uuid.New(), domain.ReminderWindow(3))
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestLedger_RejectsInvalidWindow(t *testing.T) {
	t.Parallel()

	l := openTempLedger(t)
	err := l.MarkSent(context.Background(), uuid.New(), domain.ReminderWindow(0), time.Now())
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestLedger_Prune(t *testing.T) {
	t.Parallel()

	l := openTempLedger(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	oldID, newID := uuid.New(), uuid.New()
	require.NoError(t, l.MarkSent(ctx, oldID, domain.ReminderWindow(7), base.AddDate(0, 0, -10)))
	require.NoError(t, l.MarkSent(ctx, newID, domain.ReminderWindow(7), base.AddDate(0, 0, 1)))

	removed, err := l.Prune(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	sent, err := l.HasSent(ctx, oldID, domain.ReminderWindow(7))
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = l.HasSent(ctx, newID, domain.ReminderWindow(7))
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestLedger_ConcurrentMarks(t *testing.T) {
	t.Parallel()

	l := openTempLedger(t)
	ctx := context.Background()
	occID := uuid.New()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.MarkSent(ctx, occID, domain.ReminderWindow(7), time.Now())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestLedger_ReopenKeepsEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()
	occID := uuid.New()

	l, err := Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, l.MarkSent(ctx, occID, domain.ReminderWindow(3), time.Now()))
	require.NoError(t, l.Close())

	l, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	sent, err := l.HasSent(ctx, occID, domain.ReminderWindow(3))
	require.NoError(t, err)
	assert.True(t, sent)
}
