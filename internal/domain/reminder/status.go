package reminder

import (
	"fmt"
	"math"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

// Occurrence status values.
const (
	StatusUpcoming         = "upcoming"
	StatusReminderDueToday = "reminder_due_today"
	StatusBetweenReminders = "between_reminders"
	StatusMeetingSoon      = "meeting_soon"
	StatusMeetingToday     = "meeting_today"
	StatusUnknown          = "unknown"
)

// ReminderTypeNone is reported when no further reminder will fire.
const ReminderTypeNone = "none"

// StatusInfo describes where an occurrence sits relative to its reminders.
type StatusInfo struct {
	Status         string `json:"status"`
	NextReminder   string `json:"next_reminder"`
	ReminderType   string `json:"reminder_type"`
	DaysToReminder *int   `json:"days_to_reminder"`
}

// Status classifies an occurrence by its days-until value.
func (e *Evaluator) Status(daysUntil int) StatusInfo {
	ws := e.params.Windows

	switch {
	case daysUntil == 0:
		return StatusInfo{Status: StatusMeetingToday, NextReminder: "Meeting is today!", ReminderType: ReminderTypeNone}
	case daysUntil < 0:
		return StatusInfo{Status: StatusUnknown, NextReminder: "No reminder scheduled", ReminderType: ReminderTypeNone}
	case ws.Contains(daysUntil):
		w := domain.ReminderWindow(daysUntil)
		return StatusInfo{
			Status:         StatusReminderDueToday,
			NextReminder:   fmt.Sprintf("%s reminder should be sent today", shortName(w)),
			ReminderType:   w.Label(),
			DaysToReminder: intPtr(0),
		}
	case daysUntil < int(ws.Min()):
		return StatusInfo{Status: StatusMeetingSoon, NextReminder: "Meeting is soon - all reminders sent", ReminderType: ReminderTypeNone}
	}

	// The next window is the largest one still ahead.
	for _, w := range ws {
		if int(w) < daysUntil {
			status := StatusBetweenReminders
			if w == ws.Max() {
				status = StatusUpcoming
			}
			days := daysUntil - int(w)
			return StatusInfo{
				Status:         status,
				NextReminder:   fmt.Sprintf("%s reminder in %d days", shortName(w), days),
				ReminderType:   w.Label(),
				DaysToReminder: &days,
			}
		}
	}

	return StatusInfo{Status: StatusUnknown, NextReminder: "No reminder scheduled", ReminderType: ReminderTypeNone}
}

// WillSendReminder reports whether a run at this days-until value selects
// the occurrence under exact matching.
func (e *Evaluator) WillSendReminder(daysUntil int) bool {
	return e.params.Windows.Contains(daysUntil)
}

// Bucket labels for participant dashboards.
const (
	BucketToday    = "today"
	BucketThisWeek = "this_week"
	BucketNextWeek = "next_week"
	BucketLater    = "later"
)

type bucketBound struct {
	maxDays int
	label   string
}

// buckets is evaluated in order; the first bound not below daysUntil wins.
var buckets = []bucketBound{
	{0, BucketToday},
	{7, BucketThisWeek},
	{14, BucketNextWeek},
	{math.MaxInt, BucketLater},
}

// Bucket returns the dashboard bucket for a days-until value.
func Bucket(daysUntil int) string {
	for _, b := range buckets {
		if daysUntil <= b.maxDays {
			return b.label
		}
	}
	return BucketLater
}

// BucketLabels returns every bucket label in table order.
func BucketLabels() []string {
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.label
	}
	return labels
}

// shortName renders a window as "1 week" or "3 day" for status messages.
func shortName(w domain.ReminderWindow) string {
	if w%7 == 0 {
		return fmt.Sprintf("%d week", int(w)/7)
	}
	return fmt.Sprintf("%d day", int(w))
}

func intPtr(v int) *int {
	return &v
}
