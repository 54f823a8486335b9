package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// MockParticipantStore implements store.ParticipantStore in memory.
type MockParticipantStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, participant *domain.Participant) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Participant, error)

	// GetByIDError is returned by the default GetByID when set
	GetByIDError error

	mu           sync.Mutex
	participants map[uuid.UUID]*domain.Participant
	getByIDCalls map[uuid.UUID]int
}

var _ store.ParticipantStore = (*MockParticipantStore)(nil)

// NewMockParticipantStore creates a directory holding the given participants.
func NewMockParticipantStore(participants ...*domain.Participant) *MockParticipantStore {
	m := &MockParticipantStore{
		participants: make(map[uuid.UUID]*domain.Participant),
		getByIDCalls: make(map[uuid.UUID]int),
	}
	for _, p := range participants {
		c := *p
		m.participants[p.ID] = &c
	}
	return m
}

// Create implements store.ParticipantStore.
func (m *MockParticipantStore) Create(ctx context.Context, participant *domain.Participant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, participant)
	}
	if err := participant.Validate(); err != nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if participant.HasEmail() {
		for _, existing := range m.participants {
			if domain.NormalizeEmail(existing.Email) == domain.NormalizeEmail(participant.Email) {
				return store.ErrEmailExists
			}
		}
	}
	c := *participant
	m.participants[participant.ID] = &c
	return nil
}

// GetByID implements store.ParticipantStore.
func (m *MockParticipantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	m.mu.Lock()
	m.getByIDCalls[id]++
	m.mu.Unlock()

	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, store.ErrParticipantNotFound
	}
	c := *p
	return &c, nil
}

// GetByEmail implements store.ParticipantStore, ignoring case.
func (m *MockParticipantStore) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	want := domain.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.HasEmail() && domain.NormalizeEmail(p.Email) == want {
			c := *p
			return &c, nil
		}
	}
	return nil, store.ErrParticipantNotFound
}

// WithTx implements store.ParticipantStore. The mock has no transactions.
func (m *MockParticipantStore) WithTx(*sql.Tx) store.ParticipantStore {
	return m
}

// GetByIDCalls returns how often id was looked up.
func (m *MockParticipantStore) GetByIDCalls(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getByIDCalls[id]
}
