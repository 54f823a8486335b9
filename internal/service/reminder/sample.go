package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/google/uuid"
)

// Sample meeting used by SendSample.
const (
	SampleMentorName = "Test Mentor"
	SampleTime       = "14:30"
	SampleAgenda     = "Test mentorship meeting"
	SamplePlatform   = "Zoom"
	SampleLink       = "https://zoom.us/test-meeting"
)

// SampleMessage builds the reminder SendSample delivers: a one-week
// reminder for a meeting seven days after now.
func SampleMessage(email, name string, now time.Time) notify.Message {
	day := now.AddDate(0, 0, int(policy.WeekBefore))
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	to := domain.Recipient{
		ParticipantID: uuid.New(),
		Name:          strings.TrimSpace(name),
		Email:         strings.TrimSpace(email),
		Role:          domain.RoleMentee,
	}
	payload := domain.ReminderPayload{
		MeetingID:       uuid.New(),
		OccurrenceID:    uuid.New(),
		Date:            date,
		Time:            SampleTime,
		DurationMinutes: 60,
		MentorName:      SampleMentorName,
		MenteeName:      to.Name,
		Recipients:      []domain.Recipient{to},
		Agenda:          SampleAgenda,
		Platform:        SamplePlatform,
		Link:            SampleLink,
		Window:          policy.WeekBefore,
		DaysUntil:       int(policy.WeekBefore),
	}
	payload.ApplyDefaults()
	return notify.Message{To: to, Payload: payload}
}

// SendSample delivers a sample reminder to email so operators can check
// the mail transport end to end.
func (e *Engine) SendSample(ctx context.Context, email, name string, now time.Time) (bool, error) {
	if !domain.ValidEmail(email) {
		return false, ErrInvalidRecipient
	}
	return e.send(ctx, SampleMessage(email, name, now)), nil
}
