package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/redact"
)

// Connection defaults for the CI postgres service container.
const (
	CIUser     = "postgres"
	CIPassword = "postgres"
	CIPort     = "5432"
	CIDatabase = "mentorship_test"
	CIOptions  = "sslmode=disable"
)

// GetTestDatabaseURL returns the integration test database URL from
// DATABASE_URL, MENTORSHIP_TEST_DB_URL or MENTORSHIP_DATABASE_URL, in that
// order. Under CI the URL is rewritten to the service container
// credentials. An empty string means no database is configured.
func GetTestDatabaseURL(logger *slog.Logger) string {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name, dbURL := FirstEnv(EnvDatabaseURL, EnvTestDBURL, EnvAppDatabaseURL)
	if dbURL == "" {
		logger.Debug("no test database URL configured")
		return ""
	}
	logger.Debug("using test database URL", slog.String("var", name), slog.String("url", redact.String(dbURL)))

	if !IsCI() {
		return dbURL
	}

	standardized, err := StandardizeDatabaseURL(dbURL)
	if err != nil {
		logger.Warn("could not standardize database URL", slog.String("error", redact.Error(err)))
		return dbURL
	}
	return standardized
}

// StandardizeDatabaseURL rewrites a postgres URL to the CI credentials and
// fills in a missing port, database name or query. Other schemes are
// returned unchanged.
func StandardizeDatabaseURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return dbURL, nil
	}

	u.User = url.UserPassword(CIUser, CIPassword)

	host := u.Hostname()
	if u.Port() == "" && (host == "" || host == "localhost" || host == "127.0.0.1") {
		if host == "" {
			host = "localhost"
		}
		u.Host = host + ":" + CIPort
	}
	if strings.TrimPrefix(u.Path, "/") == "" {
		u.Path = "/" + CIDatabase
	}
	if u.RawQuery == "" {
		u.RawQuery = CIOptions
	}
	return u.String(), nil
}
