package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback values used when a meeting or participant leaves a field blank.
const (
	DefaultMentorName = "Mentor"
	DefaultMenteeName = "Mentee"
	DefaultAgenda     = "Mentorship session"
	DefaultPlatform   = "Online"
)

// DateLayout is the human-readable date format used in reminder subjects
// and bodies.
const DateLayout = "Monday, January 2, 2006"

// ReminderWindow is a whole number of days before an occurrence at which a
// reminder fires.
type ReminderWindow int

// Days returns the window as a plain int.
func (w ReminderWindow) Days() int {
	return int(w)
}

// Valid reports whether the window is a positive number of days.
func (w ReminderWindow) Valid() bool {
	return w > 0
}

// Label returns the machine-readable window name, e.g. "1_week_before" or
// "3_days_before".
func (w ReminderWindow) Label() string {
	switch {
	case w%7 == 0 && w > 0:
		weeks := int(w) / 7
		if weeks == 1 {
			return "1_week_before"
		}
		return fmt.Sprintf("%d_weeks_before", weeks)
	case w == 1:
		return "1_day_before"
	default:
		return fmt.Sprintf("%d_days_before", int(w))
	}
}

// Title returns the window name for people, e.g. "1 Week Before".
func (w ReminderWindow) Title() string {
	switch {
	case w%7 == 0 && w > 0:
		weeks := int(w) / 7
		if weeks == 1 {
			return "1 Week Before"
		}
		return fmt.Sprintf("%d Weeks Before", weeks)
	case w == 1:
		return "1 Day Before"
	default:
		return fmt.Sprintf("%d Days Before", int(w))
	}
}

// String implements fmt.Stringer.
func (w ReminderWindow) String() string {
	return w.Label()
}

// Role says how a recipient takes part in a meeting.
type Role string

// Valid roles
const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Recipient is a resolved participant that can be emailed.
type Recipient struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
}

// ReminderPayload carries the facts a notifier needs to render one reminder.
// MenteeName is the primary mentee, the first one with an email on record.
// ForRecipient narrows it to the addressee for mentee messages.
type ReminderPayload struct {
	MeetingID       uuid.UUID      `json:"meeting_id"`
	OccurrenceID    uuid.UUID      `json:"occurrence_id"`
	Date            time.Time      `json:"date"`
	Time            string         `json:"time"`
	DurationMinutes int            `json:"duration_minutes"`
	MentorName      string         `json:"mentor_name"`
	MenteeName      string         `json:"mentee_name"`
	Recipients      []Recipient    `json:"recipients"`
	Agenda          string         `json:"agenda"`
	Platform        string         `json:"platform"`
	Link            string         `json:"link,omitempty"`
	Window          ReminderWindow `json:"window"`
	DaysUntil       int            `json:"days_until"`
}

// FormattedDate renders the occurrence date with DateLayout.
func (p ReminderPayload) FormattedDate() string {
	return p.Date.Format(DateLayout)
}

// ForRecipient returns the payload as addressed to to. A mentee sees their
// own name as MenteeName; the mentor sees the primary mentee.
func (p ReminderPayload) ForRecipient(to Recipient) ReminderPayload {
	if to.Role == RoleMentee && strings.TrimSpace(to.Name) != "" {
		p.MenteeName = to.Name
	}
	return p
}

// ApplyDefaults fills blank presentation fields with their fallbacks.
func (p *ReminderPayload) ApplyDefaults() {
	if p.MentorName == "" {
		p.MentorName = DefaultMentorName
	}
	if p.MenteeName == "" {
		p.MenteeName = DefaultMenteeName
	}
	if p.Agenda == "" {
		p.Agenda = DefaultAgenda
	}
	if p.Platform == "" {
		p.Platform = DefaultPlatform
	}
}

// ReminderOutcome records one delivery attempt within a run. It is not
// persisted.
type ReminderOutcome struct {
	MeetingID    uuid.UUID      `json:"meeting_id"`
	OccurrenceID uuid.UUID      `json:"occurrence_id"`
	Window       ReminderWindow `json:"window"`
	Recipient    string         `json:"recipient"`
	Role         Role           `json:"role"`
	Delivered    bool           `json:"delivered"`
}
