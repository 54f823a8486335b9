// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package: meetings and
// their occurrences, the participant directory, and the reminder ledger.
// Schema migrations are embedded and applied with goose.
package postgres
