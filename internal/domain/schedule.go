package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// MaxRecurrenceOccurrences caps how many dates a single recurrence rule may
// expand to, so rules without COUNT or UNTIL stay bounded.
const MaxRecurrenceOccurrences = 52

// MeetingDraft is the input for scheduling a meeting. Either Dates or
// Recurrence must be set; when both are set the expanded recurrence is
// merged with the explicit dates.
type MeetingDraft struct {
	MentorID        uuid.UUID
	MenteeIDs       []uuid.UUID
	Dates           []time.Time
	Recurrence      string // RFC 5545 RRULE, e.g. "FREQ=WEEKLY;COUNT=4"
	RecurrenceStart time.Time
	TimeOfDay       string
	DurationMinutes int
	Platform        string
	Agenda          string
	Link            string
}

// NewMeeting builds a Meeting from a draft, assigning IDs to the meeting and
// each occurrence. Duplicate dates collapse into one occurrence.
// Returns an error if the recurrence is invalid or the meeting fails validation.
func NewMeeting(draft MeetingDraft, now time.Time) (*Meeting, error) {
	dates := slices.Clone(draft.Dates)

	if strings.TrimSpace(draft.Recurrence) != "" {
		expanded, err := ExpandRecurrence(draft.Recurrence, draft.RecurrenceStart, MaxRecurrenceOccurrences)
		if err != nil {
			return nil, err
		}
		dates = append(dates, expanded...)
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	dates = slices.CompactFunc(dates, func(a, b time.Time) bool { return a.Equal(b) })

	meeting := &Meeting{
		ID:              uuid.New(),
		MentorID:        draft.MentorID,
		MenteeIDs:       slices.Clone(draft.MenteeIDs),
		TimeOfDay:       draft.TimeOfDay,
		DurationMinutes: draft.DurationMinutes,
		Platform:        draft.Platform,
		Agenda:          draft.Agenda,
		Link:            draft.Link,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	for _, d := range dates {
		meeting.Occurrences = append(meeting.Occurrences, Occurrence{
			ID:        uuid.New(),
			MeetingID: meeting.ID,
			Date:      d,
		})
	}

	if err := meeting.Validate(); err != nil {
		return nil, err
	}

	return meeting, nil
}

// ExpandRecurrence expands an RRULE starting at start into at most limit
// dates. The rule may be given with or without the "RRULE:" prefix.
func ExpandRecurrence(rule string, start time.Time, limit int) ([]time.Time, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: recurrence start is required", ErrInvalidRecurrence)
	}
	if limit <= 0 {
		limit = MaxRecurrenceOccurrences
	}

	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	r.DTStart(start)

	dates := make([]time.Time, 0, limit)
	next := r.Iterator()
	for len(dates) < limit {
		d, ok := next()
		if !ok {
			break
		}
		dates = append(dates, d.In(start.Location()))
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: rule produced no dates", ErrInvalidRecurrence)
	}
	return dates, nil
}
