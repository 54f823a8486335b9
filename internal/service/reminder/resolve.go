package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	errMentorUnresolved = errors.New("mentor could not be resolved")
	errNoEmail          = errors.New("participant has no email on record")
)

type lookupResult struct {
	participant *domain.Participant
	err         error
}

// resolver looks participants up in the directory and remembers the answer
// for the lifetime of one run. Concurrent lookups of the same ID share one
// directory call.
type resolver struct {
	directory Directory
	group     singleflight.Group

	mu    sync.Mutex
	cache map[uuid.UUID]lookupResult
}

func newResolver(directory Directory) *resolver {
	return &resolver{
		directory: directory,
		cache:     make(map[uuid.UUID]lookupResult),
	}
}

// lookup returns the participant for id. Errors are cached too.
func (r *resolver) lookup(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	r.mu.Lock()
	cached, ok := r.cache[id]
	r.mu.Unlock()
	if ok {
		return cached.participant, cached.err
	}

	v, _, _ := r.group.Do(id.String(), func() (any, error) {
		r.mu.Lock()
		cached, ok := r.cache[id]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		p, err := r.directory.GetByID(ctx, id)
		if err == nil && p == nil {
			err = fmt.Errorf("directory returned no participant for %s", id)
		}
		res := lookupResult{participant: p, err: err}

		r.mu.Lock()
		r.cache[id] = res
		r.mu.Unlock()
		return res, nil
	})

	res := v.(lookupResult)
	return res.participant, res.err
}

// payload resolves the occurrence's participants and assembles the reminder.
// A mentor that is missing or has no email fails the whole occurrence;
// mentees that are missing or have no email are dropped from the recipient
// list. Recipients are unique by email.
func (r *resolver) payload(
	ctx context.Context,
	so domain.ScheduledOccurrence,
	window domain.ReminderWindow,
	now time.Time,
) (domain.ReminderPayload, error) {
	log := logger.FromContext(ctx)
	m := so.Meeting

	mentor, err := r.lookup(ctx, m.MentorID)
	if err != nil {
		return domain.ReminderPayload{}, fmt.Errorf("%w: %w", errMentorUnresolved, err)
	}
	if !mentor.HasEmail() {
		return domain.ReminderPayload{}, fmt.Errorf("%w: %w", errMentorUnresolved, errNoEmail)
	}

	recipients := []domain.Recipient{{
		ParticipantID: mentor.ID,
		Name:          mentor.DisplayName(domain.DefaultMentorName),
		Email:         mentor.Email,
		Role:          domain.RoleMentor,
	}}
	seen := map[string]struct{}{domain.NormalizeEmail(mentor.Email): {}}

	var primaryMentee string
	for _, id := range m.MenteeIDs {
		mentee, err := r.lookup(ctx, id)
		if err != nil {
			log.Warn("mentee excluded from reminder",
				slog.String("mentee_id", id.String()),
				slog.String("error", err.Error()))
			continue
		}
		if !mentee.HasEmail() {
			log.Warn("mentee excluded from reminder",
				slog.String("mentee_id", id.String()),
				slog.String("error", errNoEmail.Error()))
			continue
		}

		key := domain.NormalizeEmail(mentee.Email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if primaryMentee == "" {
			primaryMentee = mentee.DisplayName("")
		}
		recipients = append(recipients, domain.Recipient{
			ParticipantID: mentee.ID,
			Name:          mentee.DisplayName(domain.DefaultMenteeName),
			Email:         mentee.Email,
			Role:          domain.RoleMentee,
		})
	}

	p := domain.ReminderPayload{
		MeetingID:       m.ID,
		OccurrenceID:    so.Occurrence.ID,
		Date:            so.Occurrence.Date,
		Time:            m.TimeOfDay,
		DurationMinutes: m.DurationMinutes,
		MentorName:      mentor.DisplayName(""),
		MenteeName:      primaryMentee,
		Recipients:      recipients,
		Agenda:          m.Agenda,
		Platform:        m.Platform,
		Link:            m.Link,
		Window:          window,
		DaysUntil:       policy.DaysUntil(so.Occurrence.Date, now),
	}
	p.ApplyDefaults()
	return p, nil
}
