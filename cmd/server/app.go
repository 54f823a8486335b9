package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/config"
	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/mail"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/metrics"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/postgres"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/sqlite"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/scheduler"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/service/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
)

// Ledger drivers accepted by reminder.ledger_driver.
const (
	ledgerDriverPostgres = "postgres"
	ledgerDriverSQLite   = "sqlite"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics *metrics.Recorder

	// Stores
	meetingStore     store.MeetingStore
	participantStore store.ParticipantStore
	ledger           store.ReminderLedger
	closeLedger      func() error

	notifier notify.Notifier

	// Services
	engine         *reminder.Engine
	scheduler      *scheduler.Scheduler
	meetingService service.MeetingService
}

// newApplication creates the stores, notifier and services backed by db.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		metrics:          metrics.NewRecorder(),
		meetingStore:     postgres.NewPostgresMeetingStore(db, logger),
		participantStore: postgres.NewPostgresParticipantStore(db, logger),
	}

	if err := app.setupLedger(ctx); err != nil {
		return nil, err
	}

	notifier, err := setupNotifier(cfg.Mail, logger)
	if err != nil {
		app.releaseLedger()
		return nil, err
	}
	app.notifier = notifier

	if err := app.wire(); err != nil {
		app.releaseLedger()
		return nil, err
	}

	logger.Info("application initialized",
		slog.Any("windows", cfg.Reminder.Windows),
		slog.Bool("ledger_enabled", app.ledger != nil),
		slog.Bool("catch_up", cfg.Reminder.CatchUp))
	return app, nil
}

// setupLedger opens the reminder ledger selected by configuration. A
// disabled ledger leaves app.ledger nil.
func (app *application) setupLedger(ctx context.Context) error {
	rc := app.config.Reminder
	if !rc.LedgerEnabled {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(rc.LedgerDriver)) {
	case ledgerDriverSQLite:
		l, err := sqlite.Open(ctx, rc.LedgerPath, app.logger)
		if err != nil {
			return fmt.Errorf("failed to open sqlite ledger: %w", err)
		}
		app.ledger = l
		app.closeLedger = l.Close
	case ledgerDriverPostgres, "":
		app.ledger = postgres.NewPostgresReminderLedger(app.db, app.logger)
	default:
		return fmt.Errorf("unknown ledger driver %q", rc.LedgerDriver)
	}

	app.logger.Info("reminder ledger enabled", slog.String("driver", rc.LedgerDriver))
	return nil
}

// setupNotifier returns an SMTP notifier when mail is configured and a
// logging notifier otherwise.
func setupNotifier(cfg config.MailConfig, logger *slog.Logger) (notify.Notifier, error) {
	if !cfg.Enabled() {
		logger.Warn("SMTP is not configured; reminders will only be logged")
		return mail.NewLogNotifier(logger), nil
	}
	n, err := mail.NewSMTPNotifier(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SMTP notifier: %w", err)
	}
	logger.Info("SMTP notifier initialized", slog.String("host", cfg.Host), slog.Int("port", cfg.Port))
	return n, nil
}

// wire builds the reminder engine, scheduler and meeting service from the
// stores and notifier already on app.
func (app *application) wire() error {
	rc := app.config.Reminder

	params, err := policy.NewParams(rc.Windows, rc.CatchUp)
	if err != nil {
		return fmt.Errorf("invalid reminder windows: %w", err)
	}

	opts := []reminder.Option{
		reminder.WithMetrics(app.metrics),
		reminder.WithMaxConcurrency(rc.MaxConcurrentSends),
	}
	if app.ledger != nil {
		opts = append(opts, reminder.WithLedger(app.ledger))
	}

	app.engine, err = reminder.NewEngine(
		app.meetingStore,
		app.participantStore,
		app.notifier,
		policy.NewEvaluator(params),
		app.logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder engine: %w", err)
	}

	app.scheduler, err = scheduler.New(app.engine, rc, app.logger, scheduler.WithMetrics(app.metrics))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	app.meetingService, err = service.NewMeetingService(app.db, app.meetingStore, app.participantStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create meeting service: %w", err)
	}
	return nil
}

// Run starts the scheduler and the HTTP server and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.config.Reminder.SchedulerEnabled {
		app.scheduler.Start(ctx)
	} else {
		app.logger.Warn("reminder scheduler disabled; use POST /api/reminders/trigger")
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	app.releaseLedger()
	closeDB(app.db, app.logger)
	app.logger.Info("application shutdown completed")
}

func (app *application) releaseLedger() {
	if app.closeLedger == nil {
		return
	}
	if err := app.closeLedger(); err != nil {
		app.logger.Error("error closing reminder ledger", slog.String("error", err.Error()))
	}
	app.closeLedger = nil
}
