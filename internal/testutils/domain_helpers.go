package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/postgres"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Defaults applied by MustCreateMeeting.
const (
	DefaultTimeOfDay = "14:30"
	DefaultPlatform  = "Zoom"
	DefaultAgenda    = "Career planning"
	DefaultLink      = "https://zoom.us/j/123"
)

// MustCreateParticipant builds a valid participant without saving it.
func MustCreateParticipant(t *testing.T, name, email string) *domain.Participant {
	t.Helper()

	p, err := domain.NewParticipant(name, email)
	require.NoError(t, err, "failed to create test participant")
	return p
}

// MeetingOption customizes the draft used by MustCreateMeeting.
type MeetingOption func(*domain.MeetingDraft)

// WithMentor sets the mentor.
func WithMentor(id uuid.UUID) MeetingOption {
	return func(d *domain.MeetingDraft) { d.MentorID = id }
}

// WithMentees sets the mentee list.
func WithMentees(ids ...uuid.UUID) MeetingOption {
	return func(d *domain.MeetingDraft) { d.MenteeIDs = ids }
}

// WithDates sets the explicit occurrence dates.
func WithDates(dates ...time.Time) MeetingOption {
	return func(d *domain.MeetingDraft) { d.Dates = dates }
}

// WithRecurrence sets an RRULE and its start.
func WithRecurrence(rule string, start time.Time) MeetingOption {
	return func(d *domain.MeetingDraft) {
		d.Recurrence = rule
		d.RecurrenceStart = start
	}
}

// WithTimeOfDay sets the HH:MM start time.
func WithTimeOfDay(clock string) MeetingOption {
	return func(d *domain.MeetingDraft) { d.TimeOfDay = clock }
}

// WithDuration sets the meeting length in minutes.
func WithDuration(minutes int) MeetingOption {
	return func(d *domain.MeetingDraft) { d.DurationMinutes = minutes }
}

// WithPlatform sets platform and link together.
func WithPlatform(platform, link string) MeetingOption {
	return func(d *domain.MeetingDraft) {
		d.Platform = platform
		d.Link = link
	}
}

// WithAgenda sets the agenda.
func WithAgenda(agenda string) MeetingOption {
	return func(d *domain.MeetingDraft) { d.Agenda = agenda }
}

// MustCreateMeeting builds a valid meeting as of now without saving it.
// Without options the mentor and a single mentee get random IDs and the
// meeting has one occurrence a week after now.
func MustCreateMeeting(t *testing.T, now time.Time, opts ...MeetingOption) *domain.Meeting {
	t.Helper()

	draft := domain.MeetingDraft{
		MentorID:  uuid.New(),
		MenteeIDs: []uuid.UUID{uuid.New()},
		Dates:     []time.Time{now.AddDate(0, 0, 7)},
		TimeOfDay: DefaultTimeOfDay,
		Platform:  DefaultPlatform,
		Agenda:    DefaultAgenda,
		Link:      DefaultLink,
	}
	for _, opt := range opts {
		opt(&draft)
	}

	m, err := domain.NewMeeting(draft, now)
	require.NoError(t, err, "failed to create test meeting")
	return m
}

// MustInsertParticipant saves a new participant through the postgres store.
func MustInsertParticipant(ctx context.Context, t *testing.T, tx store.DBTX, name, email string) *domain.Participant {
	t.Helper()

	p := MustCreateParticipant(t, name, email)
	require.NoError(t, postgres.NewPostgresParticipantStore(tx, nil).Create(ctx, p),
		"failed to insert test participant")
	return p
}

// MustInsertMeeting saves m and its occurrences through the postgres store.
func MustInsertMeeting(ctx context.Context, t *testing.T, tx store.DBTX, m *domain.Meeting) *domain.Meeting {
	t.Helper()

	require.NoError(t, postgres.NewPostgresMeetingStore(tx, nil).Create(ctx, m),
		"failed to insert test meeting")
	return m
}
