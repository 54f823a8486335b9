package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// MockMeetingStore implements store.MeetingStore in memory.
// It is safe for concurrent use; reads return snapshots.
type MockMeetingStore struct {
	// Function fields for customizable behavior
	CreateFn                       func(ctx context.Context, meeting *domain.Meeting) error
	GetByIDFn                      func(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	FindOccurrencesBetweenFn       func(ctx context.Context, from, to time.Time) ([]domain.ScheduledOccurrence, error)
	FindOccurrencesByParticipantFn func(ctx context.Context, participantID uuid.UUID, from time.Time) ([]domain.ScheduledOccurrence, error)
	DeleteOccurrencesBeforeFn      func(ctx context.Context, cutoff time.Time) (store.CleanupResult, error)

	// Errors returned by the default implementation
	FindError   error
	DeleteError error
	CreateError error

	mu           sync.Mutex
	meetings     map[uuid.UUID]*domain.Meeting
	findCalls    int
	lastFindFrom time.Time
	lastFindTo   time.Time
}

var _ store.MeetingStore = (*MockMeetingStore)(nil)

// NewMockMeetingStore creates a store holding the given meetings.
func NewMockMeetingStore(meetings ...*domain.Meeting) *MockMeetingStore {
	m := &MockMeetingStore{meetings: make(map[uuid.UUID]*domain.Meeting)}
	for _, meeting := range meetings {
		c := meeting.Clone()
		m.meetings[meeting.ID] = &c
	}
	return m
}

// Create implements store.MeetingStore.
func (m *MockMeetingStore) Create(ctx context.Context, meeting *domain.Meeting) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, meeting)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := meeting.Validate(); err != nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.meetings[meeting.ID]; exists {
		return store.ErrDuplicate
	}
	c := meeting.Clone()
	m.meetings[meeting.ID] = &c
	return nil
}

// GetByID implements store.MeetingStore.
func (m *MockMeetingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	meeting, ok := m.meetings[id]
	if !ok {
		return nil, store.ErrMeetingNotFound
	}
	c := meeting.Clone()
	return &c, nil
}

// FindOccurrencesBetween implements store.MeetingStore with from <= date < to.
func (m *MockMeetingStore) FindOccurrencesBetween(
	ctx context.Context,
	from, to time.Time,
) ([]domain.ScheduledOccurrence, error) {
	m.mu.Lock()
	m.findCalls++
	m.lastFindFrom, m.lastFindTo = from, to
	m.mu.Unlock()

	if m.FindOccurrencesBetweenFn != nil {
		return m.FindOccurrencesBetweenFn(ctx, from, to)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}

	return m.collect(func(meeting *domain.Meeting, occ domain.Occurrence) bool {
		return !occ.Date.Before(from) && occ.Date.Before(to)
	}), nil
}

// FindOccurrencesByParticipant implements store.MeetingStore.
func (m *MockMeetingStore) FindOccurrencesByParticipant(
	ctx context.Context,
	participantID uuid.UUID,
	from time.Time,
) ([]domain.ScheduledOccurrence, error) {
	if m.FindOccurrencesByParticipantFn != nil {
		return m.FindOccurrencesByParticipantFn(ctx, participantID, from)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}

	return m.collect(func(meeting *domain.Meeting, occ domain.Occurrence) bool {
		return meeting.HasParticipant(participantID) && !occ.Date.Before(from)
	}), nil
}

// DeleteOccurrencesBefore implements store.MeetingStore.
func (m *MockMeetingStore) DeleteOccurrencesBefore(ctx context.Context, cutoff time.Time) (store.CleanupResult, error) {
	if m.DeleteOccurrencesBeforeFn != nil {
		return m.DeleteOccurrencesBeforeFn(ctx, cutoff)
	}
	if m.DeleteError != nil {
		return store.CleanupResult{}, m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result store.CleanupResult
	for id, meeting := range m.meetings {
		past, remaining := meeting.SplitOccurrences(cutoff)
		if len(past) == 0 {
			continue
		}
		result.OccurrencesRemoved += len(past)
		if len(remaining) == 0 {
			delete(m.meetings, id)
			result.MeetingsRemoved++
			continue
		}
		meeting.Occurrences = remaining
	}
	return result, nil
}

// WithTx implements store.MeetingStore. The mock has no transactions.
func (m *MockMeetingStore) WithTx(*sql.Tx) store.MeetingStore {
	return m
}

// Meetings returns a snapshot of every stored meeting.
func (m *MockMeetingStore) Meetings() []domain.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Meeting, 0, len(m.meetings))
	for _, meeting := range m.meetings {
		out = append(out, meeting.Clone())
	}
	return out
}

// FindCalls returns how many range queries were made and the bounds of the last one.
func (m *MockMeetingStore) FindCalls() (calls int, from, to time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls, m.lastFindFrom, m.lastFindTo
}

func (m *MockMeetingStore) collect(match func(*domain.Meeting, domain.Occurrence) bool) []domain.ScheduledOccurrence {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.ScheduledOccurrence
	for _, meeting := range m.meetings {
		for _, occ := range meeting.Occurrences {
			if !match(meeting, occ) {
				continue
			}
			snapshot := meeting.Clone()
			snapshot.Occurrences = nil
			out = append(out, domain.ScheduledOccurrence{Meeting: snapshot, Occurrence: occ})
		}
	}

	slices.SortFunc(out, func(a, b domain.ScheduledOccurrence) int {
		if c := a.Occurrence.Date.Compare(b.Occurrence.Date); c != 0 {
			return c
		}
		return slices.Compare(a.Occurrence.ID[:], b.Occurrence.ID[:])
	})
	return out
}
