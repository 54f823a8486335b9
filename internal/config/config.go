package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTriggerTime is the wall-clock time of the daily reminder run.
const DefaultTriggerTime = "09:00"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// ReminderConfig controls the reminder engine and its daily trigger.
type ReminderConfig struct {
	TriggerTime        string `mapstructure:"trigger_time" validate:"required"`
	Timezone           string `mapstructure:"timezone"`
	Windows            []int  `mapstructure:"windows" validate:"required,min=1,dive,gt=0"`
	MaxConcurrentSends int    `mapstructure:"max_concurrent_sends" validate:"gt=0"`
	RunTimeoutSeconds  int    `mapstructure:"run_timeout_seconds" validate:"gte=0"`
	SchedulerEnabled   bool   `mapstructure:"scheduler_enabled"`
	LedgerEnabled      bool   `mapstructure:"ledger_enabled"`
	LedgerDriver       string `mapstructure:"ledger_driver" validate:"oneof=postgres sqlite"`
	LedgerPath         string `mapstructure:"ledger_path"`
	CatchUp            bool   `mapstructure:"catch_up"`
}

// MailConfig contains SMTP settings. An empty Host selects the logging
// notifier instead of SMTP.
type MailConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from" validate:"omitempty,email"`
	FromName       string `mapstructure:"from_name"`
	TLSPolicy      string `mapstructure:"tls_policy" validate:"oneof=mandatory opportunistic none"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

// Timeout returns the per-send timeout.
func (m MailConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Location resolves the configured timezone. Empty and "Local" mean the
// host's local zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(r.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// TriggerClock parses TriggerTime as a 24-hour HH:MM value.
func (r ReminderConfig) TriggerClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(r.TriggerTime))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder trigger time %q: %w", r.TriggerTime, err)
	}
	return t.Hour(), t.Minute(), nil
}

// RunTimeout bounds a single reminder run. Zero means no bound.
func (r ReminderConfig) RunTimeout() time.Duration {
	return time.Duration(r.RunTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the server waits for in-flight requests.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}
