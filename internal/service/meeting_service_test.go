package service_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/mocks"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDirectory mocks store.ParticipantStore with testify expectations.
type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Create(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockDirectory) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *mockDirectory) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *mockDirectory) WithTx(*sql.Tx) store.ParticipantStore {
	return m
}

var quietLogger = slog.New(slog.DiscardHandler)

func newService(t *testing.T, db *sql.DB, meetings store.MeetingStore, participants store.ParticipantStore) service.MeetingService {
	t.Helper()
	svc, err := service.NewMeetingService(db, meetings, participants, quietLogger)
	require.NoError(t, err)
	return svc
}

func TestNewMeetingService(t *testing.T) {
	t.Parallel()

	_, err := service.NewMeetingService(nil, nil, mocks.NewMockParticipantStore(), quietLogger)
	assert.Error(t, err)

	_, err = service.NewMeetingService(nil, mocks.NewMockMeetingStore(), nil, quietLogger)
	assert.Error(t, err)

	svc, err := service.NewMeetingService(nil, mocks.NewMockMeetingStore(), mocks.NewMockParticipantStore(), nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateParticipant(t *testing.T) {
	t.Parallel()

	directory := mocks.NewMockParticipantStore()
	svc := newService(t, nil, mocks.NewMockMeetingStore(), directory)
	ctx := context.Background()

	p, err := svc.CreateParticipant(ctx, "  Kavya Menon ", " Kavya@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Kavya Menon", p.Name)
	assert.Equal(t, "kavya@example.com", p.Email)

	got, err := svc.GetParticipantByEmail(ctx, "KAVYA@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.CreateParticipant(ctx, "Someone Else", "kavya@example.com")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = svc.CreateParticipant(ctx, "Bad Email", "not-an-email")
	assert.ErrorIs(t, err, service.ErrInvalidParticipant)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.GetParticipantByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, service.ErrParticipantNotFound)
}

func TestCreateMeeting(t *testing.T) {
	t.Parallel()

	mentor := testutils.MustCreateParticipant(t, "Rahul Nair", "rahul@example.com")
	mentee := testutils.MustCreateParticipant(t, "Divya K", "divya@example.com")
	meetings := mocks.NewMockMeetingStore()
	svc := newService(t, nil, meetings, mocks.NewMockParticipantStore(mentor, mentee))
	ctx := context.Background()

	start := time.Date(2025, time.April, 7, 15, 0, 0, 0, time.UTC)

	t.Run("explicit dates", func(t *testing.T) {
		m, err := svc.CreateMeeting(ctx, domain.MeetingDraft{
			MentorID:  mentor.ID,
			MenteeIDs: []uuid.UUID{mentee.ID},
			Dates:     []time.Time{start.AddDate(0, 0, 7), start, start},
			TimeOfDay: "15:00",
		})
		require.NoError(t, err)
		require.Len(t, m.Occurrences, 2, "duplicate dates collapse")
		assert.True(t, m.Occurrences[0].Date.Equal(start))

		stored, err := svc.GetMeeting(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, stored.ID)
	})

	t.Run("recurrence", func(t *testing.T) {
		m, err := svc.CreateMeeting(ctx, domain.MeetingDraft{
			MentorID:        mentor.ID,
			MenteeIDs:       []uuid.UUID{mentee.ID},
			Recurrence:      "FREQ=WEEKLY;COUNT=4",
			RecurrenceStart: start,
		})
		require.NoError(t, err)
		require.Len(t, m.Occurrences, 4)
		assert.True(t, m.Occurrences[3].Date.Equal(start.AddDate(0, 0, 21)))
	})

	t.Run("invalid draft", func(t *testing.T) {
		_, err := svc.CreateMeeting(ctx, domain.MeetingDraft{
			MentorID: mentor.ID,
			Dates:    []time.Time{start},
		})
		assert.ErrorIs(t, err, service.ErrInvalidMeeting)
		assert.ErrorIs(t, err, domain.ErrNoMentees)
	})

	t.Run("unknown participant", func(t *testing.T) {
		before := len(meetings.Meetings())
		_, err := svc.CreateMeeting(ctx, domain.MeetingDraft{
			MentorID:  mentor.ID,
			MenteeIDs: []uuid.UUID{uuid.New()},
			Dates:     []time.Time{start},
		})
		assert.ErrorIs(t, err, service.ErrParticipantNotFound)
		assert.Len(t, meetings.Meetings(), before)
	})
}

func TestCreateMeeting_DirectoryFailure(t *testing.T) {
	t.Parallel()

	directory := &mockDirectory{}
	directory.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
	svc := newService(t, nil, mocks.NewMockMeetingStore(), directory)

	_, err := svc.CreateMeeting(context.Background(), domain.MeetingDraft{
		MentorID:  uuid.New(),
		MenteeIDs: []uuid.UUID{uuid.New()},
		Dates:     []time.Time{time.Now().Add(time.Hour)},
	})
	require.Error(t, err)

	var svcErr *service.MeetingServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_meeting", svcErr.Operation)
	directory.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCreateMeeting_Transaction(t *testing.T) {
	t.Parallel()

	mentor := testutils.MustCreateParticipant(t, "Rahul Nair", "rahul@example.com")
	mentee := testutils.MustCreateParticipant(t, "Divya K", "divya@example.com")
	date := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)

	t.Run("commit", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		svc := newService(t, db, mocks.NewMockMeetingStore(), mocks.NewMockParticipantStore(mentor, mentee))
		_, err = svc.CreateMeeting(context.Background(), domain.MeetingDraft{
			MentorID:  mentor.ID,
			MenteeIDs: []uuid.UUID{mentee.ID},
			Dates:     []time.Time{date},
		})
		require.NoError(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		svc := newService(t, db, mocks.NewMockMeetingStore(), mocks.NewMockParticipantStore(mentor))
		_, err = svc.CreateMeeting(context.Background(), domain.MeetingDraft{
			MentorID:  mentor.ID,
			MenteeIDs: []uuid.UUID{mentee.ID},
			Dates:     []time.Time{date},
		})
		assert.ErrorIs(t, err, service.ErrParticipantNotFound)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestScheduleTestMeeting(t *testing.T) {
	t.Parallel()

	mentor := testutils.MustCreateParticipant(t, "Rahul Nair", "rahul@example.com")
	mentee := testutils.MustCreateParticipant(t, "Divya K", "divya@example.com")
	svc := newService(t, nil, mocks.NewMockMeetingStore(), mocks.NewMockParticipantStore(mentor, mentee))
	ctx := context.Background()
	now := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)

	m, err := svc.ScheduleTestMeeting(ctx, "RAHUL@example.com", "divya@example.com", 7, now)
	require.NoError(t, err)
	require.Len(t, m.Occurrences, 1)
	assert.Equal(t, time.Date(2025, time.June, 9, 14, 0, 0, 0, time.UTC), m.Occurrences[0].Date)
	assert.Equal(t, mentor.ID, m.MentorID)
	assert.Equal(t, []uuid.UUID{mentee.ID}, m.MenteeIDs)
	assert.Equal(t, service.TestMeetingTime, m.TimeOfDay)
	assert.Equal(t, service.TestMeetingPlatform, m.Platform)
	assert.Equal(t, "Test meeting for reminder (7 days from now)", m.Agenda)

	_, err = svc.ScheduleTestMeeting(ctx, "ghost@example.com", "divya@example.com", 3, now)
	assert.ErrorIs(t, err, service.ErrParticipantNotFound)

	_, err = svc.ScheduleTestMeeting(ctx, "rahul@example.com", "divya@example.com", 0, now)
	assert.ErrorIs(t, err, service.ErrInvalidMeeting)
}

func TestGetMeeting_NotFound(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil, mocks.NewMockMeetingStore(), mocks.NewMockParticipantStore())
	_, err := svc.GetMeeting(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrMeetingNotFound)
}
