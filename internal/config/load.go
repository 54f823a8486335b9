package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// MENTORSHIP_REMINDER_TRIGGER_TIME.
const EnvPrefix = "MENTORSHIP"

// Load reads configuration from an optional ./config.yaml and environment
// variables. Environment variables take precedence over values from the file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path looks for
// config.yaml in the working directory and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"database.url",
		"mail.host",
		"mail.username",
		"mail.password",
		"mail.from",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("reminder.trigger_time", DefaultTriggerTime)
	v.SetDefault("reminder.timezone", "Local")
	v.SetDefault("reminder.windows", reminder.DefaultWindows.Days())
	v.SetDefault("reminder.max_concurrent_sends", 8)
	v.SetDefault("reminder.run_timeout_seconds", 300)
	v.SetDefault("reminder.scheduler_enabled", true)
	v.SetDefault("reminder.ledger_enabled", false)
	v.SetDefault("reminder.ledger_driver", "postgres")
	v.SetDefault("reminder.ledger_path", "reminders.db")
	v.SetDefault("reminder.catch_up", false)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "Mentorship Program")
	v.SetDefault("mail.tls_policy", "mandatory")
	v.SetDefault("mail.timeout_seconds", 15)
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	r := c.Reminder
	if _, _, err := r.TriggerClock(); err != nil {
		return err
	}
	if _, err := r.Location(); err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(r.Windows))
	for _, w := range r.Windows {
		if _, dup := seen[w]; dup {
			return fmt.Errorf("reminder windows must be unique, %d listed twice", w)
		}
		seen[w] = struct{}{}
	}

	if r.CatchUp && !r.LedgerEnabled {
		return errors.New("reminder.catch_up requires reminder.ledger_enabled")
	}
	if r.LedgerEnabled && r.LedgerDriver == "sqlite" && strings.TrimSpace(r.LedgerPath) == "" {
		return errors.New("reminder.ledger_path is required for the sqlite ledger")
	}

	if c.Mail.Enabled() && c.Mail.From == "" {
		return errors.New("mail.from is required when mail.host is set")
	}

	return nil
}
