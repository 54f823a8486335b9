package reminder

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/metrics"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"

// DefaultMaxConcurrency bounds parallel occurrence processing and parallel
// sends per occurrence when no option overrides it.
const DefaultMaxConcurrency = 4

// Skip reasons reported in logs and metrics.
const (
	SkipMentorUnresolved = "mentor_unresolved"
	SkipNoRecipients     = "no_recipients"
	SkipCancelled        = "cancelled"
	SkipPanic            = "panic"
)

// MeetingRepository is the part of the meeting store the engine reads and
// sweeps.
type MeetingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	FindOccurrencesBetween(ctx context.Context, from, to time.Time) ([]domain.ScheduledOccurrence, error)
	FindOccurrencesByParticipant(ctx context.Context, participantID uuid.UUID, from time.Time) ([]domain.ScheduledOccurrence, error)
	DeleteOccurrencesBefore(ctx context.Context, cutoff time.Time) (store.CleanupResult, error)
}

// Directory resolves participant references.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)
}

// RunResult summarizes one reminder run.
type RunResult struct {
	RunID      string    `json:"run_id"`
	Now        time.Time `json:"now"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Evaluated counts occurrences returned by the range query.
	Evaluated int `json:"evaluated"`
	// Due counts occurrences the evaluator selected.
	Due int `json:"due"`
	// Sent counts occurrences with at least one delivered message.
	Sent int `json:"sent"`
	// Skipped counts due occurrences that could not be sent at all.
	Skipped int `json:"skipped"`
	// AlreadySent counts due occurrences suppressed by the ledger.
	AlreadySent int `json:"already_sent"`

	EmailsDelivered int                      `json:"emails_delivered"`
	EmailsFailed    int                      `json:"emails_failed"`
	Outcomes        []domain.ReminderOutcome `json:"outcomes"`
}

// Duration returns how long the run took.
func (r RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// occurrenceResult is what processing one due occurrence produced.
type occurrenceResult struct {
	outcomes    []domain.ReminderOutcome
	sent        bool
	alreadySent bool
	skipReason  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLedger enables the sent ledger.
func WithLedger(l store.ReminderLedger) Option {
	return func(e *Engine) {
		e.ledger = l
	}
}

// WithMetrics records run activity on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMaxConcurrency bounds parallel work. Values below 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Engine selects due occurrences and delivers their reminders.
// It is safe for concurrent use, but concurrent runs without a ledger may
// send the same reminder twice.
type Engine struct {
	meetings       MeetingRepository
	directory      Directory
	notifier       notify.Notifier
	evaluator      *policy.Evaluator
	ledger         store.ReminderLedger
	metrics        *metrics.Recorder
	tracer         trace.Tracer
	maxConcurrency int
	logger         *slog.Logger
}

// NewEngine creates an Engine.
// It returns an error if any required dependency is nil or if catch-up is
// enabled without a ledger.
func NewEngine(
	meetings MeetingRepository,
	directory Directory,
	notifier notify.Notifier,
	evaluator *policy.Evaluator,
	logger *slog.Logger,
	opts ...Option,
) (*Engine, error) {
	switch {
	case meetings == nil:
		return nil, &EngineError{Operation: "create_engine", Message: "meetings cannot be nil"}
	case directory == nil:
		return nil, &EngineError{Operation: "create_engine", Message: "directory cannot be nil"}
	case notifier == nil:
		return nil, &EngineError{Operation: "create_engine", Message: "notifier cannot be nil"}
	}

	if evaluator == nil {
		evaluator = policy.NewDefaultEvaluator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		meetings:       meetings,
		directory:      directory,
		notifier:       notifier,
		evaluator:      evaluator,
		tracer:         otel.Tracer(tracerName),
		maxConcurrency: DefaultMaxConcurrency,
		logger:         logger.With(slog.String("component", "reminder_engine")),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.evaluator.CatchUp() && e.ledger == nil {
		return nil, &EngineError{
			Operation: "create_engine",
			Message:   "catch-up selection would resend every day",
			Err:       ErrCatchUpRequiresLedger,
		}
	}

	return e, nil
}

// Evaluator returns the window evaluator the engine uses.
func (e *Engine) Evaluator() *policy.Evaluator {
	return e.evaluator
}

// LedgerEnabled reports whether runs consult a sent ledger.
func (e *Engine) LedgerEnabled() bool {
	return e.ledger != nil
}

// Run performs one reminder pass at now.
//
// If the meeting store cannot be read the result has Sent == 0 and the
// error wraps ErrStoreUnavailable. Every other failure is contained to the
// occurrence or recipient it concerns.
func (e *Engine) Run(ctx context.Context, now time.Time) (RunResult, error) {
	result := RunResult{
		RunID:     newRunID(now),
		Now:       now,
		StartedAt: time.Now().UTC(),
	}

	ctx, span := e.tracer.Start(ctx, "reminder.run", trace.WithAttributes(
		attribute.String("reminder.run_id", result.RunID),
		attribute.String("reminder.now", now.Format(time.RFC3339)),
	))
	defer span.End()

	log := logger.FromContextOrDefault(ctx, e.logger).With(slog.String("run_id", result.RunID))
	ctx = logger.WithLogger(ctx, log)

	horizon := e.evaluator.HorizonEnd(now)
	log.Info("reminder run started",
		slog.Time("now", now),
		slog.Time("horizon", horizon),
		slog.Any("windows", e.evaluator.Windows().Days()))

	candidates, err := e.meetings.FindOccurrencesBetween(ctx, now, horizon)
	if err != nil {
		result.FinishedAt = time.Now().UTC()
		log.Error("failed to load candidate occurrences", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrStoreUnavailable.Error())
		return result, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	result.Evaluated = len(candidates)

	type dueOccurrence struct {
		scheduled domain.ScheduledOccurrence
		window    domain.ReminderWindow
	}
	var due []dueOccurrence
	for _, c := range candidates {
		if w, ok := e.evaluator.DueWindow(c.Occurrence.Date, now); ok {
			due = append(due, dueOccurrence{scheduled: c, window: w})
		}
	}
	result.Due = len(due)

	resolver := newResolver(e.directory)
	results := make([]occurrenceResult, len(due))

	var g errgroup.Group
	g.SetLimit(e.maxConcurrency)
	for i, d := range due {
		g.Go(func() error {
			results[i] = e.processOccurrence(ctx, resolver, d.scheduled, d.window, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		switch {
		case r.alreadySent:
			result.AlreadySent++
		case r.sent:
			result.Sent++
		default:
			result.Skipped++
		}
		for _, o := range r.outcomes {
			if o.Delivered {
				result.EmailsDelivered++
			} else {
				result.EmailsFailed++
			}
		}
		result.Outcomes = append(result.Outcomes, r.outcomes...)
	}
	result.FinishedAt = time.Now().UTC()

	span.SetAttributes(
		attribute.Int("reminder.evaluated", result.Evaluated),
		attribute.Int("reminder.due", result.Due),
		attribute.Int("reminder.sent", result.Sent),
		attribute.Int("reminder.emails_failed", result.EmailsFailed),
	)

	log.Info("reminder run completed",
		slog.Int("evaluated", result.Evaluated),
		slog.Int("due", result.Due),
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped),
		slog.Int("already_sent", result.AlreadySent),
		slog.Int("emails_delivered", result.EmailsDelivered),
		slog.Int("emails_failed", result.EmailsFailed),
		slog.Duration("duration", result.Duration()))

	return result, nil
}

// processOccurrence handles one due occurrence end to end. It never panics.
func (e *Engine) processOccurrence(
	ctx context.Context,
	r *resolver,
	so domain.ScheduledOccurrence,
	window domain.ReminderWindow,
	now time.Time,
) (res occurrenceResult) {
	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("meeting_id", so.Meeting.ID.String()),
		slog.String("occurrence_id", so.Occurrence.ID.String()),
		slog.String("window", window.Label()))
	ctx = logger.WithLogger(ctx, log)

	defer func() {
		if p := recover(); p != nil {
			log.Error("panic while processing occurrence", slog.Any("panic", p))
			res = occurrenceResult{skipReason: SkipPanic}
			e.metrics.Skipped(SkipPanic)
		}
	}()

	if ctx.Err() != nil {
		e.metrics.Skipped(SkipCancelled)
		return occurrenceResult{skipReason: SkipCancelled}
	}

	if e.ledger != nil {
		sent, err := e.ledger.HasSent(ctx, so.Occurrence.ID, window)
		switch {
		case err != nil:
			log.Warn("ledger lookup failed, sending anyway", slog.String("error", err.Error()))
		case sent:
			log.Debug("reminder already sent")
			return occurrenceResult{alreadySent: true}
		}
	}

	payload, err := r.payload(ctx, so, window, now)
	if err != nil {
		log.Warn("skipping occurrence", slog.String("reason", SkipMentorUnresolved), slog.String("error", err.Error()))
		e.metrics.Skipped(SkipMentorUnresolved)
		return occurrenceResult{skipReason: SkipMentorUnresolved}
	}
	if len(payload.Recipients) == 0 {
		e.metrics.Skipped(SkipNoRecipients)
		return occurrenceResult{skipReason: SkipNoRecipients}
	}

	res.outcomes = e.deliver(ctx, payload)
	for _, o := range res.outcomes {
		if o.Delivered {
			res.sent = true
			break
		}
	}

	if !res.sent {
		log.Warn("no reminder delivered for occurrence", slog.Int("recipients", len(res.outcomes)))
		return res
	}

	e.metrics.OccurrenceSent(window.Days())
	if e.ledger != nil {
		if err := e.ledger.MarkSent(ctx, so.Occurrence.ID, window, now); err != nil {
			log.Error("failed to record sent reminder", slog.String("error", err.Error()))
		}
	}
	return res
}

// newRunID returns a time-ordered ULID for the run.
func newRunID(now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
