package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/config"
)

// Setup installs a JSON logger on stdout at the configured level as the
// process default and returns it.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return SetupWithWriter(cfg, os.Stdout)
}

// SetupWithWriter is Setup writing to w. An unknown level falls back to
// info and is reported through the new logger.
func SetupWithWriter(cfg config.ServerConfig, w io.Writer) (*slog.Logger, error) {
	level, known := ParseLevel(cfg.LogLevel)

	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)

	if !known && cfg.LogLevel != "" {
		l.Warn("unknown log level, using info", slog.String("log_level", cfg.LogLevel))
	}
	return l, nil
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// Unknown names yield info and false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
