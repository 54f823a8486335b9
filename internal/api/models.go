package api

import (
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/scheduler"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
	"github.com/google/uuid"
)

// Email service states reported by the health endpoint.
const (
	EmailConfigured    = "configured"
	EmailNotConfigured = "not configured"
	EmailUnreachable   = "unreachable"
)

// TestEmailRequest is the body of POST /test-email.
type TestEmailRequest struct {
	To   string `json:"to" validate:"required,email"`
	Name string `json:"name" validate:"required,max=200"`
}

// TestMeetingRequest is the body of POST /test-meeting.
type TestMeetingRequest struct {
	MentorEmail string `json:"mentor_email" validate:"required,email"`
	MenteeEmail string `json:"mentee_email" validate:"required,email,nefield=MentorEmail"`
	DaysFromNow int    `json:"days_from_now" validate:"required,gte=1,lte=365"`
}

// TriggerResponse reports a manual reminder run.
type TriggerResponse struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	RemindersSent   int       `json:"reminders_sent"`
	RunID           string    `json:"run_id,omitempty"`
	Evaluated       int       `json:"evaluated"`
	Due             int       `json:"due"`
	Skipped         int       `json:"skipped"`
	AlreadySent     int       `json:"already_sent"`
	EmailsDelivered int       `json:"emails_delivered"`
	EmailsFailed    int       `json:"emails_failed"`
	DurationMS      int64     `json:"duration_ms"`
	Error           string    `json:"error,omitempty"`
	TraceID         string    `json:"trace_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// HealthResponse describes the reminder service configuration and state.
type HealthResponse struct {
	Status           string             `json:"status"`
	Message          string             `json:"message"`
	Timestamp        time.Time          `json:"timestamp"`
	Schedule         string             `json:"schedule"`
	CronSpec         string             `json:"cron_spec"`
	Timezone         string             `json:"timezone"`
	SchedulerRunning bool               `json:"scheduler_running"`
	Reminders        string             `json:"reminders"`
	Windows          []string           `json:"windows"`
	CatchUp          bool               `json:"catch_up"`
	LedgerEnabled    bool               `json:"ledger_enabled"`
	EmailService     string             `json:"email_service"`
	NextCheck        time.Time          `json:"next_check"`
	LastRun          *scheduler.LastRun `json:"last_run,omitempty"`
}

// UserSummary identifies the participant a view was built for.
type UserSummary struct {
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"user_id"`
}

// UserRemindersResponse is returned by GET /user/{email}.
type UserRemindersResponse struct {
	Success           bool                           `json:"success"`
	User              UserSummary                    `json:"user"`
	UpcomingReminders []reminder.ParticipantReminder `json:"upcoming_reminders"`
	TotalReminders    int                            `json:"total_reminders"`
	Timestamp         time.Time                      `json:"timestamp"`
}

// RemindersCountResponse is returned by GET /count/{email}. Counts are
// keyed upcoming_<bucket> plus total_upcoming.
type RemindersCountResponse struct {
	Success   bool           `json:"success"`
	User      UserSummary    `json:"user"`
	Counts    map[string]int `json:"counts"`
	Timestamp time.Time      `json:"timestamp"`
}

// AllUpcomingResponse is returned by GET /all.
type AllUpcomingResponse struct {
	Success bool `json:"success"`
	*reminder.Upcoming
	Timestamp time.Time `json:"timestamp"`
}

// MeetingStatusResponse is returned by GET /meeting/{meetingID}/{occurrenceID}.
type MeetingStatusResponse struct {
	Success   bool                       `json:"success"`
	Meeting   *reminder.OccurrenceStatus `json:"meeting"`
	Timestamp time.Time                  `json:"timestamp"`
}

// CleanupResponse is returned by DELETE /cleanup.
type CleanupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	reminder.CleanupReport
	Timestamp time.Time `json:"timestamp"`
}

// DebugResponse is returned by GET /debug.
type DebugResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Debug     *reminder.Preview `json:"debug"`
	Timestamp time.Time         `json:"timestamp"`
}

// TestEmailResponse is returned by POST /test-email.
type TestEmailResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
}

// TestMeetingSummary describes a meeting created by POST /test-meeting.
type TestMeetingSummary struct {
	ID                  uuid.UUID `json:"id"`
	OccurrenceID        uuid.UUID `json:"occurrence_id"`
	Date                time.Time `json:"date"`
	FormattedDate       string    `json:"formatted_date"`
	Time                string    `json:"time"`
	Mentor              string    `json:"mentor"`
	Mentee              string    `json:"mentee"`
	WillTriggerReminder bool      `json:"will_trigger_reminder"`
}

// TestMeetingResponse is returned by POST /test-meeting.
type TestMeetingResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Meeting TestMeetingSummary `json:"meeting"`
}
