// Package sqlite provides a single-node reminder ledger stored in a local
// SQLite file, for deployments that keep meetings elsewhere but still want
// to suppress duplicate reminders across restarts.
package sqlite
