// Package testutils provides fixtures shared by tests across the
// application: valid participants and meetings, and helpers that insert them
// through the postgres stores.
//
// Build a meeting with defaults and override only what the test cares about:
//
//	mentor := testutils.MustCreateParticipant(t, "Priya Raman", "priya@example.com")
//	meeting := testutils.MustCreateMeeting(t, now,
//	    testutils.WithMentor(mentor.ID),
//	    testutils.WithDates(now.AddDate(0, 0, 7)),
//	)
package testutils
