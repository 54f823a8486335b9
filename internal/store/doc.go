// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the reminder engine, so meeting data, the participant directory and the
// sent ledger can live in PostgreSQL, SQLite or memory.
package store
