package domain

import (
	"errors"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Meeting
var (
	ErrEmptyMeetingID      = errors.New("meeting ID cannot be empty")
	ErrEmptyMentorID       = errors.New("meeting mentor ID cannot be empty")
	ErrNoMentees           = errors.New("meeting must have at least one mentee")
	ErrEmptyMenteeID       = errors.New("meeting mentee ID cannot be empty")
	ErrDuplicateMentee     = errors.New("meeting mentee listed more than once")
	ErrMentorIsMentee      = errors.New("meeting mentor cannot also be a mentee")
	ErrNoOccurrences       = errors.New("meeting must have at least one occurrence")
	ErrEmptyOccurrenceID   = errors.New("occurrence ID cannot be empty")
	ErrDuplicateOccurrence = errors.New("occurrence ID listed more than once")
	ErrOccurrenceNotOwned  = errors.New("occurrence belongs to another meeting")
	ErrEmptyOccurrenceDate = errors.New("occurrence date cannot be empty")
	ErrInvalidTimeOfDay    = errors.New("meeting time must be formatted as HH:MM")
	ErrNegativeDuration    = errors.New("meeting duration cannot be negative")
	ErrOccurrenceNotFound  = errors.New("occurrence not found on meeting")
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Occurrence is one concrete calendar date on which a Meeting happens.
// It is addressed by its own ID so reminders and status can refer to it
// independently of its siblings.
type Occurrence struct {
	ID        uuid.UUID `json:"id"`
	MeetingID uuid.UUID `json:"meeting_id"`
	Date      time.Time `json:"date"`
}

// Meeting is a scheduled mentorship meeting between one mentor and one or
// more mentees, happening on one or more occurrences.
type Meeting struct {
	ID              uuid.UUID    `json:"id"`
	MentorID        uuid.UUID    `json:"mentor_id"`
	MenteeIDs       []uuid.UUID  `json:"mentee_ids"`
	Occurrences     []Occurrence `json:"occurrences"`
	TimeOfDay       string       `json:"time_of_day"`
	DurationMinutes int          `json:"duration_minutes"`
	Platform        string       `json:"platform"`
	Agenda          string       `json:"agenda"`
	Link            string       `json:"link"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ScheduledOccurrence pairs an occurrence with a snapshot of its owning
// meeting. Stores return these as consistent reads.
type ScheduledOccurrence struct {
	Meeting    Meeting
	Occurrence Occurrence
}

// Validate checks the Meeting invariants.
// Returns the first violated invariant.
func (m *Meeting) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMeetingID
	}

	if m.MentorID == uuid.Nil {
		return ErrEmptyMentorID
	}

	if len(m.MenteeIDs) == 0 {
		return ErrNoMentees
	}

	seen := make(map[uuid.UUID]struct{}, len(m.MenteeIDs))
	for _, id := range m.MenteeIDs {
		if id == uuid.Nil {
			return ErrEmptyMenteeID
		}
		if id == m.MentorID {
			return ErrMentorIsMentee
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateMentee
		}
		seen[id] = struct{}{}
	}

	if len(m.Occurrences) == 0 {
		return ErrNoOccurrences
	}

	occSeen := make(map[uuid.UUID]struct{}, len(m.Occurrences))
	for _, occ := range m.Occurrences {
		if occ.ID == uuid.Nil {
			return ErrEmptyOccurrenceID
		}
		if occ.MeetingID != m.ID {
			return ErrOccurrenceNotOwned
		}
		if occ.Date.IsZero() {
			return ErrEmptyOccurrenceDate
		}
		if _, dup := occSeen[occ.ID]; dup {
			return ErrDuplicateOccurrence
		}
		occSeen[occ.ID] = struct{}{}
	}

	if m.TimeOfDay != "" && !timeOfDayPattern.MatchString(m.TimeOfDay) {
		return ErrInvalidTimeOfDay
	}

	if m.DurationMinutes < 0 {
		return ErrNegativeDuration
	}

	return nil
}

// Participants returns the mentor followed by every mentee.
func (m *Meeting) Participants() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.MenteeIDs)+1)
	ids = append(ids, m.MentorID)
	return append(ids, m.MenteeIDs...)
}

// HasParticipant reports whether id is the mentor or one of the mentees.
func (m *Meeting) HasParticipant(id uuid.UUID) bool {
	return m.MentorID == id || slices.Contains(m.MenteeIDs, id)
}

// Occurrence returns the occurrence with the given ID.
func (m *Meeting) Occurrence(id uuid.UUID) (Occurrence, error) {
	for _, occ := range m.Occurrences {
		if occ.ID == id {
			return occ, nil
		}
	}
	return Occurrence{}, ErrOccurrenceNotFound
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing slices.
func (m *Meeting) Clone() Meeting {
	c := *m
	c.MenteeIDs = slices.Clone(m.MenteeIDs)
	c.Occurrences = slices.Clone(m.Occurrences)
	return c
}

// SplitOccurrences partitions the meeting's occurrences into those strictly
// before cutoff and the rest.
func (m *Meeting) SplitOccurrences(cutoff time.Time) (past, remaining []Occurrence) {
	for _, occ := range m.Occurrences {
		if occ.Date.Before(cutoff) {
			past = append(past, occ)
		} else {
			remaining = append(remaining, occ)
		}
	}
	return past, remaining
}
