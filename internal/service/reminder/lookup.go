package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/google/uuid"
)

// isoDate is the machine-readable date layout used by the views.
const isoDate = "2006-01-02"

// TimeNotSet is shown when a meeting has no time of day.
const TimeNotSet = "Time not set"

// ParticipantRef names a meeting participant in a view.
type ParticipantRef struct {
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
}

// OccurrenceView is the common presentation of one occurrence.
type OccurrenceView struct {
	MeetingID     uuid.UUID         `json:"meeting_id"`
	OccurrenceID  uuid.UUID         `json:"occurrence_id"`
	Date          string            `json:"date"`
	FormattedDate string            `json:"formatted_date"`
	Time          string            `json:"time"`
	FormattedTime string            `json:"formatted_time"`
	Agenda        string            `json:"agenda"`
	Platform      string            `json:"platform"`
	MeetingLink   string            `json:"meeting_link,omitempty"`
	DaysUntil     int               `json:"days_until"`
	Status        policy.StatusInfo `json:"reminder_status"`
}

// ParticipantReminder is one upcoming occurrence seen by a participant.
type ParticipantReminder struct {
	OccurrenceView
	YourRole          domain.Role      `json:"your_role"`
	OtherParticipants []ParticipantRef `json:"other_participants"`
}

// ParticipantReminders lists a participant's upcoming occurrences by date.
type ParticipantReminders struct {
	Participant domain.Participant    `json:"participant"`
	Reminders   []ParticipantReminder `json:"upcoming_reminders"`
}

// ParticipantCounts buckets a participant's upcoming occurrences.
type ParticipantCounts struct {
	Participant domain.Participant `json:"participant"`
	Buckets     map[string]int     `json:"buckets"`
	Total       int                `json:"total_upcoming"`
}

// OccurrenceStatus describes a single occurrence and its reminder state.
type OccurrenceStatus struct {
	OccurrenceView
	Mentor           ParticipantRef   `json:"mentor"`
	Mentees          []ParticipantRef `json:"mentees"`
	WillSendReminder bool             `json:"will_send_reminder"`
}

// UpcomingOccurrence is one entry of the all-upcoming view.
type UpcomingOccurrence struct {
	OccurrenceView
	Mentor            ParticipantRef   `json:"mentor"`
	Mentees           []ParticipantRef `json:"mentees"`
	TotalParticipants int              `json:"total_participants"`
}

// UpcomingSummary aggregates the all-upcoming view.
type UpcomingSummary struct {
	TotalUpcoming    int            `json:"total_upcoming"`
	DueByWindow      map[string]int `json:"due_by_window"`
	MeetingsToday    int            `json:"meetings_today"`
	MeetingsThisWeek int            `json:"meetings_this_week"`
}

// Upcoming is every future occurrence with a summary.
type Upcoming struct {
	Occurrences []UpcomingOccurrence `json:"upcoming_meetings"`
	Summary     UpcomingSummary      `json:"stats"`
}

// PreviewOccurrence is an occurrence a run at the preview time would select.
type PreviewOccurrence struct {
	MeetingID    uuid.UUID        `json:"meeting_id"`
	OccurrenceID uuid.UUID        `json:"occurrence_id"`
	Date         time.Time        `json:"date"`
	DaysUntil    int              `json:"days_until"`
	Recipients   []ParticipantRef `json:"recipients"`
	AlreadySent  bool             `json:"already_sent"`
	SkipReason   string           `json:"skip_reason,omitempty"`
}

// PreviewWindow groups previewed occurrences by window.
type PreviewWindow struct {
	Window      string              `json:"window"`
	Days        int                 `json:"days"`
	Occurrences []PreviewOccurrence `json:"occurrences"`
}

// Preview shows what a run at Now would do without sending anything.
type Preview struct {
	Now       time.Time       `json:"now"`
	Horizon   time.Time       `json:"horizon"`
	Evaluated int             `json:"evaluated"`
	CatchUp   bool            `json:"catch_up"`
	Windows   []PreviewWindow `json:"windows"`
}

// UpcomingForParticipant lists every occurrence after now in which the
// participant with email is mentor or mentee.
func (e *Engine) UpcomingForParticipant(ctx context.Context, email string, now time.Time) (*ParticipantReminders, error) {
	participant, occurrences, err := e.participantOccurrences(ctx, email, now)
	if err != nil {
		return nil, err
	}

	r := newResolver(e.directory)
	out := &ParticipantReminders{Participant: *participant, Reminders: []ParticipantReminder{}}
	for _, so := range occurrences {
		m := so.Meeting
		entry := ParticipantReminder{
			OccurrenceView:    e.occurrenceView(so, now),
			YourRole:          domain.RoleMentee,
			OtherParticipants: []ParticipantRef{},
		}
		if m.MentorID == participant.ID {
			entry.YourRole = domain.RoleMentor
		} else {
			entry.OtherParticipants = append(entry.OtherParticipants, r.ref(ctx, m.MentorID, domain.RoleMentor))
		}
		for _, id := range m.MenteeIDs {
			if id != participant.ID {
				entry.OtherParticipants = append(entry.OtherParticipants, r.ref(ctx, id, domain.RoleMentee))
			}
		}
		out.Reminders = append(out.Reminders, entry)
	}
	return out, nil
}

// CountsForParticipant buckets the participant's occurrences after now.
func (e *Engine) CountsForParticipant(ctx context.Context, email string, now time.Time) (*ParticipantCounts, error) {
	participant, occurrences, err := e.participantOccurrences(ctx, email, now)
	if err != nil {
		return nil, err
	}

	counts := &ParticipantCounts{Participant: *participant, Buckets: make(map[string]int)}
	for _, label := range policy.BucketLabels() {
		counts.Buckets[label] = 0
	}
	for _, so := range occurrences {
		counts.Buckets[policy.Bucket(policy.DaysUntil(so.Occurrence.Date, now))]++
		counts.Total++
	}
	return counts, nil
}

// OccurrenceStatus reports the reminder state of one occurrence.
func (e *Engine) OccurrenceStatus(
	ctx context.Context,
	meetingID, occurrenceID uuid.UUID,
	now time.Time,
) (*OccurrenceStatus, error) {
	meeting, err := e.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, NewEngineError("occurrence_status", "failed to load meeting", err)
	}
	occ, err := meeting.Occurrence(occurrenceID)
	if err != nil {
		return nil, ErrOccurrenceNotFound
	}

	snapshot := meeting.Clone()
	snapshot.Occurrences = nil
	so := domain.ScheduledOccurrence{Meeting: snapshot, Occurrence: occ}

	r := newResolver(e.directory)
	view := e.occurrenceView(so, now)
	status := &OccurrenceStatus{
		OccurrenceView:   view,
		Mentor:           r.ref(ctx, meeting.MentorID, domain.RoleMentor),
		Mentees:          r.refs(ctx, meeting.MenteeIDs, domain.RoleMentee),
		WillSendReminder: occ.Date.After(now) && e.evaluator.WillSendReminder(view.DaysUntil),
	}
	return status, nil
}

// Upcoming lists every occurrence after now with per-window due counts.
func (e *Engine) Upcoming(ctx context.Context, now time.Time) (*Upcoming, error) {
	occurrences, err := e.meetings.FindOccurrencesBetween(ctx, now, farFuture(now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	windows := e.evaluator.Windows()
	out := &Upcoming{
		Occurrences: []UpcomingOccurrence{},
		Summary:     UpcomingSummary{DueByWindow: make(map[string]int, len(windows))},
	}
	for _, w := range windows {
		out.Summary.DueByWindow[w.Label()] = 0
	}

	r := newResolver(e.directory)
	for _, so := range occurrences {
		if !so.Occurrence.Date.After(now) {
			continue
		}
		view := e.occurrenceView(so, now)
		out.Occurrences = append(out.Occurrences, UpcomingOccurrence{
			OccurrenceView:    view,
			Mentor:            r.ref(ctx, so.Meeting.MentorID, domain.RoleMentor),
			Mentees:           r.refs(ctx, so.Meeting.MenteeIDs, domain.RoleMentee),
			TotalParticipants: len(so.Meeting.MenteeIDs) + 1,
		})

		s := &out.Summary
		s.TotalUpcoming++
		if windows.Contains(view.DaysUntil) {
			s.DueByWindow[domain.ReminderWindow(view.DaysUntil).Label()]++
		}
		if view.DaysUntil == 0 {
			s.MeetingsToday++
		}
		if view.DaysUntil <= 7 {
			s.MeetingsThisWeek++
		}
	}
	return out, nil
}

// Preview evaluates a run at now without sending or recording anything.
func (e *Engine) Preview(ctx context.Context, now time.Time) (*Preview, error) {
	horizon := e.evaluator.HorizonEnd(now)
	candidates, err := e.meetings.FindOccurrencesBetween(ctx, now, horizon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	out := &Preview{
		Now:       now,
		Horizon:   horizon,
		Evaluated: len(candidates),
		CatchUp:   e.evaluator.CatchUp(),
	}
	byWindow := make(map[domain.ReminderWindow]*PreviewWindow)
	for _, w := range e.evaluator.Windows() {
		out.Windows = append(out.Windows, PreviewWindow{Window: w.Label(), Days: w.Days(), Occurrences: []PreviewOccurrence{}})
	}
	for i := range out.Windows {
		byWindow[domain.ReminderWindow(out.Windows[i].Days)] = &out.Windows[i]
	}

	log := logger.FromContextOrDefault(ctx, e.logger)
	r := newResolver(e.directory)
	for _, so := range candidates {
		w, ok := e.evaluator.DueWindow(so.Occurrence.Date, now)
		if !ok {
			continue
		}

		entry := PreviewOccurrence{
			MeetingID:    so.Meeting.ID,
			OccurrenceID: so.Occurrence.ID,
			Date:         so.Occurrence.Date,
			DaysUntil:    policy.DaysUntil(so.Occurrence.Date, now),
			Recipients:   []ParticipantRef{},
		}
		if e.ledger != nil {
			sent, err := e.ledger.HasSent(ctx, so.Occurrence.ID, w)
			if err != nil {
				log.Warn("ledger lookup failed during preview", slog.String("error", err.Error()))
			}
			entry.AlreadySent = sent
		}

		payload, err := r.payload(ctx, so, w, now)
		if err != nil {
			entry.SkipReason = SkipMentorUnresolved
		}
		for _, rcpt := range payload.Recipients {
			entry.Recipients = append(entry.Recipients, ParticipantRef{Name: rcpt.Name, Email: rcpt.Email, Role: rcpt.Role})
		}

		pw := byWindow[w]
		pw.Occurrences = append(pw.Occurrences, entry)
	}
	return out, nil
}

// participantOccurrences resolves email and returns the participant's
// occurrences strictly after now.
func (e *Engine) participantOccurrences(
	ctx context.Context,
	email string,
	now time.Time,
) (*domain.Participant, []domain.ScheduledOccurrence, error) {
	participant, err := e.directory.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, nil, NewEngineError("participant_lookup", "failed to resolve participant", err)
	}

	all, err := e.meetings.FindOccurrencesByParticipant(ctx, participant.ID, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	var occurrences []domain.ScheduledOccurrence
	for _, so := range all {
		if so.Occurrence.Date.After(now) {
			occurrences = append(occurrences, so)
		}
	}
	return participant, occurrences, nil
}

func (e *Engine) occurrenceView(so domain.ScheduledOccurrence, now time.Time) OccurrenceView {
	m := so.Meeting
	days := policy.DaysUntil(so.Occurrence.Date, now)

	agenda := m.Agenda
	if strings.TrimSpace(agenda) == "" {
		agenda = domain.DefaultAgenda
	}
	platform := m.Platform
	if strings.TrimSpace(platform) == "" {
		platform = domain.DefaultPlatform
	}

	return OccurrenceView{
		MeetingID:     m.ID,
		OccurrenceID:  so.Occurrence.ID,
		Date:          so.Occurrence.Date.Format(isoDate),
		FormattedDate: so.Occurrence.Date.Format(domain.DateLayout),
		Time:          m.TimeOfDay,
		FormattedTime: FormatTime(m.TimeOfDay),
		Agenda:        agenda,
		Platform:      platform,
		MeetingLink:   m.Link,
		DaysUntil:     days,
		Status:        e.evaluator.Status(days),
	}
}

// ref resolves id for display, falling back to the role's default name.
func (r *resolver) ref(ctx context.Context, id uuid.UUID, role domain.Role) ParticipantRef {
	fallback := domain.DefaultMenteeName
	if role == domain.RoleMentor {
		fallback = domain.DefaultMentorName
	}

	p, err := r.lookup(ctx, id)
	if err != nil {
		return ParticipantRef{Name: fallback, Role: role}
	}
	return ParticipantRef{Name: p.DisplayName(fallback), Email: p.Email, Role: role}
}

func (r *resolver) refs(ctx context.Context, ids []uuid.UUID, role domain.Role) []ParticipantRef {
	out := make([]ParticipantRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.ref(ctx, id, role))
	}
	return out
}

// FormatTime renders "14:30" as "2:30 PM". Blank input yields TimeNotSet;
// anything unparseable is returned unchanged.
func FormatTime(timeOfDay string) string {
	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay == "" {
		return TimeNotSet
	}
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return timeOfDay
	}
	return t.Format("3:04 PM")
}

// farFuture bounds "all upcoming" queries.
func farFuture(now time.Time) time.Time {
	return now.AddDate(100, 0, 0)
}
