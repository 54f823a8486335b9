package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

type ledgerKey struct {
	occurrenceID uuid.UUID
	window       domain.ReminderWindow
}

// MockLedger implements store.ReminderLedger in memory and can prune old
// entries like the SQLite ledger.
type MockLedger struct {
	HasSentError  error
	MarkSentError error
	PruneError    error

	mu      sync.Mutex
	entries map[ledgerKey]time.Time
}

var _ store.ReminderLedger = (*MockLedger)(nil)

// NewMockLedger creates an empty ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{entries: make(map[ledgerKey]time.Time)}
}

// HasSent implements store.ReminderLedger.
func (m *MockLedger) HasSent(_ context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow) (bool, error) {
	if m.HasSentError != nil {
		return false, m.HasSentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[ledgerKey{occurrenceID, window}]
	return ok, nil
}

// MarkSent implements store.ReminderLedger. The first timestamp wins.
func (m *MockLedger) MarkSent(_ context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow, at time.Time) error {
	if m.MarkSentError != nil {
		return m.MarkSentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ledgerKey{occurrenceID, window}
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = at
	}
	return nil
}

// Prune removes entries recorded before cutoff.
func (m *MockLedger) Prune(_ context.Context, cutoff time.Time) (int, error) {
	if m.PruneError != nil {
		return 0, m.PruneError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, at := range m.entries {
		if at.Before(cutoff) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of recorded pairs.
func (m *MockLedger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
