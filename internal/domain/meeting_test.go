package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validMeeting() *Meeting {
	id := uuid.New()
	return &Meeting{
		ID:        id,
		MentorID:  uuid.New(),
		MenteeIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Occurrences: []Occurrence{
			{ID: uuid.New(), MeetingID: id, Date: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), MeetingID: id, Date: time.Date(2025, 3, 17, 15, 0, 0, 0, time.UTC)},
		},
		TimeOfDay:       "15:00",
		DurationMinutes: 45,
		Platform:        "Zoom",
	}
}

func TestMeetingValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(m *Meeting)
		wantErr error
	}{
		{"valid", func(m *Meeting) {}, nil},
		{"nil ID", func(m *Meeting) { m.ID = uuid.Nil }, ErrEmptyMeetingID},
		{"nil mentor", func(m *Meeting) { m.MentorID = uuid.Nil }, ErrEmptyMentorID},
		{"no mentees", func(m *Meeting) { m.MenteeIDs = nil }, ErrNoMentees},
		{"nil mentee", func(m *Meeting) { m.MenteeIDs[1] = uuid.Nil }, ErrEmptyMenteeID},
		{"duplicate mentee", func(m *Meeting) { m.MenteeIDs[1] = m.MenteeIDs[0] }, ErrDuplicateMentee},
		{"mentor is mentee", func(m *Meeting) { m.MenteeIDs[0] = m.MentorID }, ErrMentorIsMentee},
		{"no occurrences", func(m *Meeting) { m.Occurrences = nil }, ErrNoOccurrences},
		{"nil occurrence ID", func(m *Meeting) { m.Occurrences[0].ID = uuid.Nil }, ErrEmptyOccurrenceID},
		{"foreign occurrence", func(m *Meeting) { m.Occurrences[0].MeetingID = uuid.New() }, ErrOccurrenceNotOwned},
		{"zero date", func(m *Meeting) { m.Occurrences[1].Date = time.Time{} }, ErrEmptyOccurrenceDate},
		{"duplicate occurrence", func(m *Meeting) { m.Occurrences[1].ID = m.Occurrences[0].ID }, ErrDuplicateOccurrence},
		{"bad time of day", func(m *Meeting) { m.TimeOfDay = "25:00" }, ErrInvalidTimeOfDay},
		{"empty time of day", func(m *Meeting) { m.TimeOfDay = "" }, nil},
		{"negative duration", func(m *Meeting) { m.DurationMinutes = -1 }, ErrNegativeDuration},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validMeeting()
			tc.mutate(m)
			err := m.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMeetingParticipants(t *testing.T) {
	t.Parallel()
	m := validMeeting()

	ids := m.Participants()
	if len(ids) != 3 {
		t.Fatalf("Expected 3 participants, got %d", len(ids))
	}
	if ids[0] != m.MentorID {
		t.Errorf("Expected mentor first, got %s", ids[0])
	}

	if !m.HasParticipant(m.MenteeIDs[1]) {
		t.Error("Expected mentee to be a participant")
	}
	if m.HasParticipant(uuid.New()) {
		t.Error("Expected unknown ID not to be a participant")
	}
}

func TestMeetingOccurrenceLookup(t *testing.T) {
	t.Parallel()
	m := validMeeting()

	occ, err := m.Occurrence(m.Occurrences[1].ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !occ.Date.Equal(m.Occurrences[1].Date) {
		t.Errorf("Expected date %v, got %v", m.Occurrences[1].Date, occ.Date)
	}

	if _, err := m.Occurrence(uuid.New()); !errors.Is(err, ErrOccurrenceNotFound) {
		t.Errorf("Expected ErrOccurrenceNotFound, got %v", err)
	}
}

func TestMeetingClone(t *testing.T) {
	t.Parallel()
	m := validMeeting()

	c := m.Clone()
	c.MenteeIDs[0] = uuid.New()
	c.Occurrences[0].Date = time.Time{}

	if c.MenteeIDs[0] == m.MenteeIDs[0] {
		t.Error("Expected clone mentees to be independent")
	}
	if m.Occurrences[0].Date.IsZero() {
		t.Error("Expected clone occurrences to be independent")
	}
}

func TestMeetingSplitOccurrences(t *testing.T) {
	t.Parallel()
	m := validMeeting()

	cutoff := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	past, remaining := m.SplitOccurrences(cutoff)
	if len(past) != 1 || past[0].ID != m.Occurrences[0].ID {
		t.Errorf("Expected first occurrence in past, got %v", past)
	}
	if len(remaining) != 1 || remaining[0].ID != m.Occurrences[1].ID {
		t.Errorf("Expected second occurrence remaining, got %v", remaining)
	}

	// An occurrence exactly at the cutoff is not past.
	past, _ = m.SplitOccurrences(m.Occurrences[0].Date)
	if len(past) != 0 {
		t.Errorf("Expected no past occurrences at the cutoff, got %d", len(past))
	}
}
