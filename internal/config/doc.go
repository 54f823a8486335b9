// Package config loads application settings from config.yaml and
// MENTORSHIP_-prefixed environment variables with viper, applies defaults
// and validates the result.
package config
