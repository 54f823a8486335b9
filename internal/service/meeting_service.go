package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/redact"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
)

// Test meeting defaults.
const (
	TestMeetingTime     = "14:00"
	TestMeetingDuration = 60
	TestMeetingPlatform = "Zoom"
	TestMeetingLink     = "https://zoom.us/test-meeting"
)

// MeetingService provides meeting and participant operations
type MeetingService interface {
	// CreateParticipant registers a participant in the directory
	CreateParticipant(ctx context.Context, name, email string) (*domain.Participant, error)

	// GetParticipantByEmail resolves a participant by email, ignoring case
	GetParticipantByEmail(ctx context.Context, email string) (*domain.Participant, error)

	// CreateMeeting schedules a meeting after checking that every participant exists
	CreateMeeting(ctx context.Context, draft domain.MeetingDraft) (*domain.Meeting, error)

	// GetMeeting retrieves a meeting with its occurrences
	GetMeeting(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)

	// ScheduleTestMeeting creates a one-off meeting daysFromNow days after now
	// between two existing participants
	ScheduleTestMeeting(ctx context.Context, mentorEmail, menteeEmail string, daysFromNow int, now time.Time) (*domain.Meeting, error)
}

// meetingServiceImpl implements the MeetingService interface
type meetingServiceImpl struct {
	db           *sql.DB
	meetings     store.MeetingStore
	participants store.ParticipantStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewMeetingService creates a new MeetingService.
// db may be nil, in which case writes are not wrapped in a transaction.
// It returns an error if either store is nil.
func NewMeetingService(
	db *sql.DB,
	meetings store.MeetingStore,
	participants store.ParticipantStore,
	logger *slog.Logger,
) (MeetingService, error) {
	if meetings == nil {
		return nil, &MeetingServiceError{Operation: "create_service", Message: "meetings cannot be nil"}
	}
	if participants == nil {
		return nil, &MeetingServiceError{Operation: "create_service", Message: "participants cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &meetingServiceImpl{
		db:           db,
		meetings:     meetings,
		participants: participants,
		logger:       logger.With(slog.String("component", "meeting_service")),
		now:          time.Now,
	}, nil
}

// CreateParticipant implements MeetingService
func (s *meetingServiceImpl) CreateParticipant(ctx context.Context, name, email string) (*domain.Participant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := domain.NewParticipant(name, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParticipant, err)
	}

	if err := s.participants.Create(ctx, p); err != nil {
		log.Error("failed to create participant",
			slog.String("email", redact.Email(p.Email)),
			slog.String("error", err.Error()))
		return nil, NewMeetingServiceError("create_participant", "failed to save participant", err)
	}

	log.Info("participant created", slog.String("participant_id", p.ID.String()))
	return p, nil
}

// GetParticipantByEmail implements MeetingService
func (s *meetingServiceImpl) GetParticipantByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	p, err := s.participants.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, NewMeetingServiceError("get_participant", "failed to resolve participant", err)
	}
	return p, nil
}

// CreateMeeting implements MeetingService
func (s *meetingServiceImpl) CreateMeeting(ctx context.Context, draft domain.MeetingDraft) (*domain.Meeting, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	meeting, err := domain.NewMeeting(draft, s.now())
	if err != nil {
		log.Warn("meeting draft rejected",
			slog.String("draft", describeDraft(draft)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrInvalidMeeting, err)
	}

	err = s.inTx(ctx, func(ctx context.Context, meetings store.MeetingStore, participants store.ParticipantStore) error {
		for _, id := range meeting.Participants() {
			if _, err := participants.GetByID(ctx, id); err != nil {
				log.Warn("meeting references unknown participant",
					slog.String("participant_id", id.String()),
					slog.String("error", err.Error()))
				return NewMeetingServiceError("create_meeting", "failed to resolve participant", err)
			}
		}

		if err := meetings.Create(ctx, meeting); err != nil {
			return NewMeetingServiceError("create_meeting", "failed to save meeting", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create meeting", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("meeting created",
		slog.String("meeting_id", meeting.ID.String()),
		slog.Int("occurrences", len(meeting.Occurrences)))
	return meeting, nil
}

// GetMeeting implements MeetingService
func (s *meetingServiceImpl) GetMeeting(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, NewMeetingServiceError("get_meeting", "failed to load meeting", err)
	}
	return m, nil
}

// ScheduleTestMeeting implements MeetingService
func (s *meetingServiceImpl) ScheduleTestMeeting(
	ctx context.Context,
	mentorEmail, menteeEmail string,
	daysFromNow int,
	now time.Time,
) (*domain.Meeting, error) {
	if daysFromNow < 1 {
		return nil, fmt.Errorf("%w: days from now must be positive", ErrInvalidMeeting)
	}

	mentor, err := s.GetParticipantByEmail(ctx, mentorEmail)
	if err != nil {
		return nil, err
	}
	mentee, err := s.GetParticipantByEmail(ctx, menteeEmail)
	if err != nil {
		return nil, err
	}

	day := now.AddDate(0, 0, daysFromNow)
	date := time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, now.Location())

	return s.CreateMeeting(ctx, domain.MeetingDraft{
		MentorID:        mentor.ID,
		MenteeIDs:       []uuid.UUID{mentee.ID},
		Dates:           []time.Time{date},
		TimeOfDay:       TestMeetingTime,
		DurationMinutes: TestMeetingDuration,
		Platform:        TestMeetingPlatform,
		Link:            TestMeetingLink,
		Agenda:          fmt.Sprintf("Test meeting for reminder (%d days from now)", daysFromNow),
	})
}

type txFn func(ctx context.Context, meetings store.MeetingStore, participants store.ParticipantStore) error

// inTx runs fn in a transaction when a database is configured.
func (s *meetingServiceImpl) inTx(ctx context.Context, fn txFn) error {
	if s.db == nil {
		return fn(ctx, s.meetings, s.participants)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.meetings.WithTx(tx), s.participants.WithTx(tx))
	})
}

// describeDraft is used in logs when a draft is rejected.
func describeDraft(d domain.MeetingDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mentor=%s mentees=%d dates=%d", d.MentorID, len(d.MenteeIDs), len(d.Dates))
	if d.Recurrence != "" {
		fmt.Fprintf(&b, " rrule=%q", d.Recurrence)
	}
	return b.String()
}
