// Package main implements the entry point for the mentorship reminder
// service, which emails mentors and mentees ahead of scheduled meetings.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/config"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/postgres"
)

// options holds the command-line flags.
type options struct {
	configPath string
	migrate    bool
	triggerNow bool
	cleanup    bool
}

// parseFlags parses args (without the program name). At most one of the
// one-shot commands may be set.
func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (default: ./config.yaml if present)")
	fs.BoolVar(&opts.migrate, "migrate", false, "apply database migrations and exit")
	fs.BoolVar(&opts.triggerNow, "trigger-now", false, "run one reminder pass and exit")
	fs.BoolVar(&opts.cleanup, "cleanup", false, "remove past occurrences and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	commands := 0
	for _, set := range []bool{opts.migrate, opts.triggerNow, opts.cleanup} {
		if set {
			commands++
		}
	}
	if commands > 1 {
		return options{}, fmt.Errorf("-migrate, -trigger-now and -cleanup are mutually exclusive")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and executes either a
// one-shot command or the long-running server.
func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("smtp_configured", cfg.Mail.Enabled()),
		slog.Bool("scheduler_enabled", cfg.Reminder.SchedulerEnabled))

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if opts.migrate {
		defer closeDB(db, log)
		return postgres.Migrate(ctx, db, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	switch {
	case opts.triggerNow:
		defer app.cleanup()
		res, err := app.scheduler.TriggerNow(ctx)
		printJSON(res)
		return err
	case opts.cleanup:
		defer app.cleanup()
		report, err := app.engine.Cleanup(ctx, time.Now())
		printJSON(report)
		return err
	}

	return app.Run(ctx)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode result", slog.String("error", err.Error()))
	}
}
