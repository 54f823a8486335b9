package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/api/shared"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/scheduler"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
)

// verifyTimeout bounds the mail transport check of the health endpoint.
const verifyTimeout = 10 * time.Second

// ReminderEngine is the part of *reminder.Engine the handler serves.
type ReminderEngine interface {
	Cleanup(ctx context.Context, now time.Time) (reminder.CleanupReport, error)
	UpcomingForParticipant(ctx context.Context, email string, now time.Time) (*reminder.ParticipantReminders, error)
	CountsForParticipant(ctx context.Context, email string, now time.Time) (*reminder.ParticipantCounts, error)
	OccurrenceStatus(ctx context.Context, meetingID, occurrenceID uuid.UUID, now time.Time) (*reminder.OccurrenceStatus, error)
	Upcoming(ctx context.Context, now time.Time) (*reminder.Upcoming, error)
	Preview(ctx context.Context, now time.Time) (*reminder.Preview, error)
	SendSample(ctx context.Context, email, name string, now time.Time) (bool, error)
	Evaluator() *policy.Evaluator
	LedgerEnabled() bool
}

// RunTrigger is the part of *scheduler.Scheduler the handler serves.
type RunTrigger interface {
	TriggerNow(ctx context.Context) (reminder.RunResult, error)
	Spec() string
	Location() *time.Location
	Running() bool
	NextRun() time.Time
	LastRun() *scheduler.LastRun
}

// ReminderHandler serves the operational reminder endpoints.
type ReminderHandler struct {
	engine   ReminderEngine
	trigger  RunTrigger
	meetings service.MeetingService
	verifier notify.Verifier
	logger   *slog.Logger
	now      func() time.Time
}

// HandlerOption configures a ReminderHandler.
type HandlerOption func(*ReminderHandler)

// WithClock replaces time.Now for the read-side views.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *ReminderHandler) {
		if clock != nil {
			h.now = clock
		}
	}
}

// WithVerifier lets the health endpoint check the mail transport. Without
// one the email service is reported as not configured.
func WithVerifier(v notify.Verifier) HandlerOption {
	return func(h *ReminderHandler) {
		h.verifier = v
	}
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(
	engine ReminderEngine,
	trigger RunTrigger,
	meetings service.MeetingService,
	logger *slog.Logger,
	opts ...HandlerOption,
) *ReminderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ReminderHandler{
		engine:   engine,
		trigger:  trigger,
		meetings: meetings,
		logger:   logger.With(slog.String("component", "reminder_handler")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the reminder endpoints on r. Mount it under
// /api/reminders.
func (h *ReminderHandler) Routes(r chi.Router) {
	r.Post("/trigger", h.Trigger)
	r.Get("/health", h.Health)
	r.Get("/user/{email}", h.UserReminders)
	r.Get("/count/{email}", h.RemindersCount)
	r.Get("/all", h.AllUpcoming)
	r.Get("/meeting/{meetingID}/{occurrenceID}", h.MeetingStatus)
	r.Delete("/cleanup", h.Cleanup)
	r.Get("/debug", h.Debug)
	r.Post("/test-email", h.TestEmail)
	r.Post("/test-meeting", h.TestMeeting)
}

// Trigger handles POST /trigger by running the reminder engine now.
func (h *ReminderHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("manual reminder run requested")

	res, err := h.trigger.TriggerNow(r.Context())
	resp := TriggerResponse{
		Success:         err == nil,
		Message:         "Reminders triggered successfully",
		RemindersSent:   res.Sent,
		RunID:           res.RunID,
		Evaluated:       res.Evaluated,
		Due:             res.Due,
		Skipped:         res.Skipped,
		AlreadySent:     res.AlreadySent,
		EmailsDelivered: res.EmailsDelivered,
		EmailsFailed:    res.EmailsFailed,
		DurationMS:      res.Duration().Milliseconds(),
		Timestamp:       h.now(),
	}
	if err != nil {
		log.Error("manual reminder run failed",
			slog.String("run_id", res.RunID),
			slog.String("error", err.Error()))
		resp.Message = "Failed to trigger reminders"
		resp.RemindersSent = 0
		resp.Error = GetSafeErrorMessage(err)
		resp.TraceID = shared.GetTraceID(r.Context())
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, resp)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *ReminderHandler) Health(w http.ResponseWriter, r *http.Request) {
	ev := h.engine.Evaluator()
	windows := ev.Windows()

	labels := make([]string, 0, len(windows))
	titles := make([]string, 0, len(windows))
	for _, win := range windows {
		labels = append(labels, win.Label())
		titles = append(titles, strings.ToLower(win.Title()))
	}

	next := h.trigger.NextRun()
	loc := h.trigger.Location()
	resp := HealthResponse{
		Status:           "healthy",
		Message:          "Reminder service is running",
		Timestamp:        h.now(),
		Schedule:         fmt.Sprintf("Daily at %s (%s)", next.Format("15:04"), loc),
		CronSpec:         h.trigger.Spec(),
		Timezone:         loc.String(),
		SchedulerRunning: h.trigger.Running(),
		Reminders:        strings.Join(titles, " & ") + " meetings",
		Windows:          labels,
		CatchUp:          ev.CatchUp(),
		LedgerEnabled:    h.engine.LedgerEnabled(),
		EmailService:     h.emailStatus(r.Context()),
		NextCheck:        next,
		LastRun:          h.trigger.LastRun(),
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *ReminderHandler) emailStatus(ctx context.Context) string {
	if h.verifier == nil {
		return EmailNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	if err := h.verifier.Verify(ctx); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Warn("mail transport check failed",
			slog.String("error", err.Error()))
		return EmailUnreachable
	}
	return EmailConfigured
}

// UserReminders handles GET /user/{email}.
func (h *ReminderHandler) UserReminders(w http.ResponseWriter, r *http.Request) {
	email, ok := pathEmail(w, r)
	if !ok {
		return
	}

	out, err := h.engine.UpcomingForParticipant(r.Context(), email, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user reminders")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserRemindersResponse{
		Success:           true,
		User:              userSummary(out.Participant, email),
		UpcomingReminders: out.Reminders,
		TotalReminders:    len(out.Reminders),
		Timestamp:         h.now(),
	})
}

// RemindersCount handles GET /count/{email}.
func (h *ReminderHandler) RemindersCount(w http.ResponseWriter, r *http.Request) {
	email, ok := pathEmail(w, r)
	if !ok {
		return
	}

	out, err := h.engine.CountsForParticipant(r.Context(), email, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get reminders count")
		return
	}

	counts := make(map[string]int, len(out.Buckets)+1)
	for bucket, n := range out.Buckets {
		counts["upcoming_"+bucket] = n
	}
	counts["total_upcoming"] = out.Total

	shared.RespondWithJSON(w, r, http.StatusOK, RemindersCountResponse{
		Success:   true,
		User:      userSummary(out.Participant, email),
		Counts:    counts,
		Timestamp: h.now(),
	})
}

// AllUpcoming handles GET /all.
func (h *ReminderHandler) AllUpcoming(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.Upcoming(r.Context(), h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get upcoming reminders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AllUpcomingResponse{Success: true, Upcoming: out, Timestamp: h.now()})
}

// MeetingStatus handles GET /meeting/{meetingID}/{occurrenceID}.
func (h *ReminderHandler) MeetingStatus(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathUUID(r, "meetingID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	occurrenceID, err := pathUUID(r, "occurrenceID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out, err := h.engine.OccurrenceStatus(r.Context(), meetingID, occurrenceID, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get meeting reminder status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MeetingStatusResponse{Success: true, Meeting: out, Timestamp: h.now()})
}

// Cleanup handles DELETE /cleanup.
func (h *ReminderHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Cleanup(r.Context(), h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to clear old reminders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CleanupResponse{
		Success:       true,
		Message:       "Cleaned up old reminders",
		CleanupReport: report,
		Timestamp:     h.now(),
	})
}

// Debug handles GET /debug.
func (h *ReminderHandler) Debug(w http.ResponseWriter, r *http.Request) {
	preview, err := h.engine.Preview(r.Context(), h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Debug failed")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DebugResponse{
		Success:   true,
		Message:   "Debug information generated",
		Debug:     preview,
		Timestamp: h.now(),
	})
}

// TestEmail handles POST /test-email.
func (h *ReminderHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	var req TestEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sent, err := h.engine.SendSample(r.Context(), req.To, req.Name, h.now())
	if err != nil {
		HandleAPIError(w, r, err, "Error sending test email")
		return
	}
	if !sent {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to send test email")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TestEmailResponse{
		Success:   true,
		Message:   "Test email sent successfully",
		Recipient: req.To,
		Timestamp: h.now(),
	})
}

// TestMeeting handles POST /test-meeting.
func (h *ReminderHandler) TestMeeting(w http.ResponseWriter, r *http.Request) {
	var req TestMeetingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	now := h.now()
	meeting, err := h.meetings.ScheduleTestMeeting(ctx, req.MentorEmail, req.MenteeEmail, req.DaysFromNow, now)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create test meeting")
		return
	}

	summary := TestMeetingSummary{
		ID:                  meeting.ID,
		Time:                reminder.FormatTime(meeting.TimeOfDay),
		Mentor:              h.participantName(ctx, req.MentorEmail, domain.DefaultMentorName),
		Mentee:              h.participantName(ctx, req.MenteeEmail, domain.DefaultMenteeName),
		WillTriggerReminder: h.engine.Evaluator().WillSendReminder(req.DaysFromNow),
	}
	if len(meeting.Occurrences) > 0 {
		occ := meeting.Occurrences[0]
		summary.OccurrenceID = occ.ID
		summary.Date = occ.Date
		summary.FormattedDate = occ.Date.Format(domain.DateLayout)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TestMeetingResponse{
		Success: true,
		Message: fmt.Sprintf("Test meeting created for %d days from now", req.DaysFromNow),
		Meeting: summary,
	})
}

func (h *ReminderHandler) participantName(ctx context.Context, email, fallback string) string {
	p, err := h.meetings.GetParticipantByEmail(ctx, email)
	if err != nil {
		return fallback
	}
	return p.DisplayName(fallback)
}

func userSummary(p domain.Participant, requested string) UserSummary {
	email := p.Email
	if email == "" {
		email = requested
	}
	return UserSummary{Name: p.DisplayName("User"), Email: email, UserID: p.ID}
}
