package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/config"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/metrics"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
	"github.com/robfig/cron/v3"
)

// Runner performs one reminder pass. *reminder.Engine implements it.
type Runner interface {
	Run(ctx context.Context, now time.Time) (reminder.RunResult, error)
}

// LastRun describes the most recent completed run.
type LastRun struct {
	Trigger    string    `json:"trigger"`
	RunID      string    `json:"run_id"`
	Now        time.Time `json:"now"`
	FinishedAt time.Time `json:"finished_at"`
	Sent       int       `json:"sent"`
	Error      string    `json:"error,omitempty"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now as the source of a run's now.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics records runs on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// Scheduler runs the reminder engine once a day at the configured time in
// the configured location, and on demand.
type Scheduler struct {
	runner   Runner
	cron     *cron.Cron
	schedule cron.Schedule
	job      cron.Job
	spec     string
	loc      *time.Location
	timeout  time.Duration
	clock    func() time.Time
	metrics  *metrics.Recorder
	logger   *slog.Logger

	mu      sync.Mutex
	baseCtx context.Context
	started bool
	last    *LastRun
}

// New creates a Scheduler for cfg. It does not start the timer.
func New(runner Runner, cfg config.ReminderConfig, log *slog.Logger, opts ...Option) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler: runner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.TriggerClock()
	if err != nil {
		return nil, err
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		runner:   runner,
		schedule: schedule,
		spec:     spec,
		loc:      loc,
		timeout:  cfg.RunTimeout(),
		clock:    time.Now,
		logger:   log.With(slog.String("component", "scheduler")),
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{logger: s.logger}
	// Recover sits inside SkipIfStillRunning so a panicking run still
	// releases the overlap guard.
	s.job = cron.NewChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)).Then(cron.FuncJob(s.scheduledRun))
	s.cron = cron.New(cron.WithLocation(loc), cron.WithLogger(cl))
	s.cron.Schedule(schedule, s.job)

	return s, nil
}

// Spec returns the cron expression of the daily trigger.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Location returns the time zone the trigger is evaluated in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Start starts the daily timer. Scheduled runs use ctx as their parent
// context. Calling Start twice has no effect.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.baseCtx = ctx
	s.started = true
	s.cron.Start()

	s.logger.Info("scheduler started",
		slog.String("spec", s.spec),
		slog.String("location", s.loc.String()),
		slog.Time("next_run", s.NextRun()))
}

// Stop stops the timer and waits for a running scheduled job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Running reports whether the daily timer is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// NextRun returns the next time the daily trigger fires after the clock's now.
func (s *Scheduler) NextRun() time.Time {
	return s.schedule.Next(s.clock().In(s.loc))
}

// LastRun returns the most recent completed run, or nil before the first.
func (s *Scheduler) LastRun() *LastRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	last := *s.last
	return &last
}

// TriggerNow runs the same orchestration as the daily trigger, now.
// Manual runs are not serialized with scheduled ones.
func (s *Scheduler) TriggerNow(ctx context.Context) (reminder.RunResult, error) {
	return s.run(ctx, metrics.TriggerManual)
}

func (s *Scheduler) scheduledRun() {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	_, _ = s.run(ctx, metrics.TriggerScheduled)
}

func (s *Scheduler) run(ctx context.Context, trigger string) (reminder.RunResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("trigger", trigger))
	ctx = logger.WithLogger(ctx, log)

	now := s.clock()
	started := time.Now()
	result, err := s.runner.Run(ctx, now)
	elapsed := time.Since(started)

	s.metrics.RunCompleted(trigger, err == nil, elapsed, time.Now())

	last := &LastRun{
		Trigger:    trigger,
		RunID:      result.RunID,
		Now:        now,
		FinishedAt: time.Now().UTC(),
		Sent:       result.Sent,
	}
	if err != nil {
		last.Error = err.Error()
		log.Error("reminder run failed",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()))
	}

	s.mu.Lock()
	s.last = last
	s.mu.Unlock()

	return result, err
}
