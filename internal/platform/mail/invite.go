package mail

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

const (
	inviteFileName    = "invite.ics"
	inviteProductID   = "-//Alumni Mentorship//Meeting Reminders//EN"
	defaultInviteSpan = time.Hour
)

// OccurrenceStart combines the occurrence date with the meeting's HH:MM
// time of day in the date's location. A blank or malformed time yields the
// date unchanged.
func OccurrenceStart(date time.Time, timeOfDay string) time.Time {
	clock, err := time.Parse("15:04", strings.TrimSpace(timeOfDay))
	if err != nil {
		return date
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, date.Location())
}

// buildInvite renders an iCalendar REQUEST for the occurrence. The UID is
// derived from the occurrence ID so repeated reminders update one calendar
// entry instead of adding new ones.
func buildInvite(p domain.ReminderPayload, organizer string, now time.Time) string {
	p.ApplyDefaults()

	start := OccurrenceStart(p.Date, p.Time)
	span := defaultInviteSpan
	if p.DurationMinutes > 0 {
		span = time.Duration(p.DurationMinutes) * time.Minute
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodRequest)
	cal.SetProductId(inviteProductID)

	event := cal.AddEvent(fmt.Sprintf("%s@mentorship", p.OccurrenceID))
	event.SetDtStampTime(now.UTC())
	event.SetStartAt(start.UTC())
	event.SetEndAt(start.Add(span).UTC())
	event.SetSummary(fmt.Sprintf("Mentorship session: %s & %s", p.MentorName, p.MenteeName))
	event.SetDescription(p.Agenda)
	event.SetLocation(p.Platform)
	event.SetStatus(ical.ObjectStatusConfirmed)
	if p.Link != "" {
		event.SetURL(p.Link)
	}
	if organizer != "" {
		event.SetOrganizer(organizer)
	}

	for _, r := range p.Recipients {
		if r.Email == "" {
			continue
		}
		params := []ical.PropertyParameter{
			ical.CalendarUserTypeIndividual,
			ical.ParticipationStatusNeedsAction,
			ical.ParticipationRoleReqParticipant,
			ical.WithRSVP(true),
		}
		if r.Name != "" {
			params = append(params, ical.WithCN(r.Name))
		}
		event.AddAttendee(r.Email, params...)
	}

	return cal.Serialize()
}
