package ciutil

import "os"

// Environment variables consulted by this package.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	EnvDatabaseURL    = "DATABASE_URL"
	EnvTestDBURL      = "MENTORSHIP_TEST_DB_URL"
	EnvAppDatabaseURL = "MENTORSHIP_DATABASE_URL"
)

// IsCI reports whether a known CI provider is running the process.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// FirstEnv returns the name and value of the first non-empty variable in
// names.
func FirstEnv(names ...string) (name, value string) {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return n, v
		}
	}
	return "", ""
}
