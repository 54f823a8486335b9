package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/mocks"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingForParticipant(t *testing.T) {
	t.Parallel()

	var group, solo *domain.Meeting
	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		group = newMeeting(t, f.mentor.ID, f.mentees(), base.Add(10*policy.Day), base.Add(-policy.Day))
		solo = newMeeting(t, f.mentor.ID, []uuid.UUID{f.mentee.ID}, base.Add(3*policy.Day))
		return []*domain.Meeting{group, solo}
	})
	e := f.engine(t, nil)

	t.Run("mentor sees mentees", func(t *testing.T) {
		got, err := e.UpcomingForParticipant(context.Background(), "  PRIYA@example.com ", base)
		require.NoError(t, err)
		assert.Equal(t, f.mentor.ID, got.Participant.ID)
		require.Len(t, got.Reminders, 2, "past occurrences are excluded")

		first := got.Reminders[0]
		assert.Equal(t, solo.ID, first.MeetingID)
		assert.Equal(t, domain.RoleMentor, first.YourRole)
		assert.Equal(t, []reminder.ParticipantRef{
			{Name: "Arjun Das", Email: "arjun@example.com", Role: domain.RoleMentee},
		}, first.OtherParticipants)
		assert.Equal(t, 3, first.DaysUntil)
		assert.Equal(t, "2:30 PM", first.FormattedTime)
		assert.Equal(t, base.Add(3*policy.Day).Format("2006-01-02"), first.Date)
		assert.Equal(t, policy.StatusReminderDueToday, first.Status.Status)

		second := got.Reminders[1]
		assert.Equal(t, group.ID, second.MeetingID)
		assert.Len(t, second.OtherParticipants, 2)
		assert.Equal(t, policy.StatusUpcoming, second.Status.Status)
	})

	t.Run("mentee sees mentor and other mentees", func(t *testing.T) {
		got, err := e.UpcomingForParticipant(context.Background(), "meera@example.com", base)
		require.NoError(t, err)
		require.Len(t, got.Reminders, 1)

		r := got.Reminders[0]
		assert.Equal(t, domain.RoleMentee, r.YourRole)
		assert.Equal(t, []reminder.ParticipantRef{
			{Name: "Priya Raman", Email: "priya@example.com", Role: domain.RoleMentor},
			{Name: "Arjun Das", Email: "arjun@example.com", Role: domain.RoleMentee},
		}, r.OtherParticipants)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := e.UpcomingForParticipant(context.Background(), "nobody@example.com", base)
		assert.ErrorIs(t, err, reminder.ErrParticipantNotFound)
	})
}

func TestUpcomingForParticipant_UnresolvedNamesFallBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		return []*domain.Meeting{newMeeting(t, uuid.New(), []uuid.UUID{f.mentee.ID}, base.Add(4*policy.Day))}
	})
	e := f.engine(t, nil)

	got, err := e.UpcomingForParticipant(context.Background(), "arjun@example.com", base)
	require.NoError(t, err)
	require.Len(t, got.Reminders, 1)
	assert.Equal(t, []reminder.ParticipantRef{{Name: domain.DefaultMentorName, Role: domain.RoleMentor}},
		got.Reminders[0].OtherParticipants)
}

func TestUpcomingForParticipant_StoreFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(*fixture) []*domain.Meeting { return nil })
	f.meetings.FindError = errors.New("timeout")
	e := f.engine(t, nil)

	_, err := e.UpcomingForParticipant(context.Background(), "priya@example.com", base)
	assert.ErrorIs(t, err, reminder.ErrStoreUnavailable)
}

func TestCountsForParticipant(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		return []*domain.Meeting{
			newMeeting(t, f.mentor.ID, []uuid.UUID{f.mentee.ID},
				base.Add(2*time.Hour),
				base.Add(6*policy.Day),
				base.Add(10*policy.Day),
				base.Add(40*policy.Day),
				base.Add(-3*policy.Day)),
		}
	})
	e := f.engine(t, nil)

	got, err := e.CountsForParticipant(context.Background(), "arjun@example.com", base)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		policy.BucketToday:    0,
		policy.BucketThisWeek: 2,
		policy.BucketNextWeek: 1,
		policy.BucketLater:    1,
	}, got.Buckets)
	assert.Equal(t, 4, got.Total)

	_, err = e.CountsForParticipant(context.Background(), "ghost@example.com", base)
	assert.ErrorIs(t, err, reminder.ErrParticipantNotFound)
}

func TestOccurrenceStatus(t *testing.T) {
	t.Parallel()

	var meeting *domain.Meeting
	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		meeting = newMeeting(t, f.mentor.ID, f.mentees(), base.Add(7*policy.Day), base.Add(12*policy.Day))
		return []*domain.Meeting{meeting}
	})
	e := f.engine(t, nil)
	ctx := context.Background()

	due, err := e.OccurrenceStatus(ctx, meeting.ID, meeting.Occurrences[0].ID, base)
	require.NoError(t, err)
	assert.True(t, due.WillSendReminder)
	assert.Equal(t, 7, due.DaysUntil)
	assert.Equal(t, policy.StatusReminderDueToday, due.Status.Status)
	assert.Equal(t, "Priya Raman", due.Mentor.Name)
	assert.Len(t, due.Mentees, 2)

	later, err := e.OccurrenceStatus(ctx, meeting.ID, meeting.Occurrences[1].ID, base)
	require.NoError(t, err)
	assert.False(t, later.WillSendReminder)
	assert.Equal(t, policy.StatusUpcoming, later.Status.Status)
	require.NotNil(t, later.Status.DaysToReminder)
	assert.Equal(t, 5, *later.Status.DaysToReminder)

	_, err = e.OccurrenceStatus(ctx, meeting.ID, uuid.New(), base)
	assert.ErrorIs(t, err, reminder.ErrOccurrenceNotFound)

	_, err = e.OccurrenceStatus(ctx, uuid.New(), meeting.Occurrences[0].ID, base)
	assert.ErrorIs(t, err, reminder.ErrOccurrenceNotFound)
}

func TestUpcoming(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		return []*domain.Meeting{
			newMeeting(t, f.mentor.ID, f.mentees(), base.Add(3*policy.Day), base.Add(7*policy.Day)),
			newMeeting(t, f.mentor.ID, []uuid.UUID{f.mentee.ID}, base.Add(20*policy.Day), base.Add(-policy.Day)),
		}
	})
	e := f.engine(t, nil)

	got, err := e.Upcoming(context.Background(), base)
	require.NoError(t, err)
	require.Len(t, got.Occurrences, 3)
	assert.Equal(t, 3, got.Summary.TotalUpcoming)
	assert.Equal(t, map[string]int{"1_week_before": 1, "3_days_before": 1}, got.Summary.DueByWindow)
	assert.Equal(t, 2, got.Summary.MeetingsThisWeek)
	assert.Zero(t, got.Summary.MeetingsToday)

	assert.Equal(t, 3, got.Occurrences[0].TotalParticipants)
	assert.Equal(t, 2, got.Occurrences[2].TotalParticipants)
	assert.Equal(t, "Priya Raman", got.Occurrences[0].Mentor.Name)
}

func TestPreview(t *testing.T) {
	t.Parallel()

	var weekly, orphan *domain.Meeting
	f := newFixture(t, func(f *fixture) []*domain.Meeting {
		weekly = newMeeting(t, f.mentor.ID, f.mentees(), base.Add(7*policy.Day))
		orphan = newMeeting(t, uuid.New(), []uuid.UUID{f.mentee.ID}, base.Add(3*policy.Day))
		return []*domain.Meeting{weekly, orphan, newMeeting(t, f.mentor.ID, f.mentees(), base.Add(5*policy.Day))}
	})
	ledger := mocks.NewMockLedger()
	require.NoError(t, ledger.MarkSent(context.Background(), weekly.Occurrences[0].ID, policy.WeekBefore, base))
	e := f.engine(t, nil, reminder.WithLedger(ledger))

	got, err := e.Preview(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Evaluated)
	assert.False(t, got.CatchUp)
	require.Len(t, got.Windows, 2)

	week := got.Windows[0]
	assert.Equal(t, "1_week_before", week.Window)
	require.Len(t, week.Occurrences, 1)
	assert.True(t, week.Occurrences[0].AlreadySent)
	assert.Len(t, week.Occurrences[0].Recipients, 3)

	three := got.Windows[1]
	assert.Equal(t, 3, three.Days)
	require.Len(t, three.Occurrences, 1)
	assert.Equal(t, orphan.ID, three.Occurrences[0].MeetingID)
	assert.Equal(t, reminder.SkipMentorUnresolved, three.Occurrences[0].SkipReason)
	assert.Empty(t, three.Occurrences[0].Recipients)

	assert.Empty(t, f.notifier.Messages(), "preview never sends")
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"14:30": "2:30 PM",
		"09:05": "9:05 AM",
		"00:00": "12:00 AM",
		"12:15": "12:15 PM",
		"":      reminder.TimeNotSet,
		"  ":    reminder.TimeNotSet,
		"later": "later",
	}
	for in, want := range tests {
		assert.Equal(t, want, reminder.FormatTime(in), in)
	}
}

func TestSendSample(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(*fixture) []*domain.Meeting { return nil })
	e := f.engine(t, nil)

	_, err := e.SendSample(context.Background(), "not-an-email", "Sam", base)
	assert.ErrorIs(t, err, reminder.ErrInvalidRecipient)

	ok, err := e.SendSample(context.Background(), "sam@example.com", "Sam", base)
	require.NoError(t, err)
	assert.True(t, ok)

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 1)
	p := msgs[0].Payload
	assert.Equal(t, "sam@example.com", msgs[0].To.Email)
	assert.Equal(t, reminder.SampleMentorName, p.MentorName)
	assert.Equal(t, "Sam", p.MenteeName)
	assert.Equal(t, reminder.SampleAgenda, p.Agenda)
	assert.Equal(t, reminder.SamplePlatform, p.Platform)
	assert.Equal(t, reminder.SampleLink, p.Link)
	assert.Equal(t, reminder.SampleTime, p.Time)
	assert.Equal(t, policy.WeekBefore, p.Window)
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC), p.Date)
}

func TestSendSample_DeliveryFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(*fixture) []*domain.Meeting { return nil })
	f.notifier.SendFn = func(context.Context, notify.Message) bool { return false }
	e := f.engine(t, nil)

	ok, err := e.SendSample(context.Background(), "sam@example.com", "Sam", base)
	require.NoError(t, err)
	assert.False(t, ok)
}
