// Package reminder runs the meeting reminder engine.
//
// A run loads the occurrences that can be due inside the largest reminder
// window, asks the evaluator which window each one is due for, resolves the
// mentor and mentees through the participant directory and sends one
// message per recipient. Runs never retry a failed delivery; the next daily
// run is the retry. An optional sent ledger suppresses repeats across runs.
//
// The package also serves the read-side views used by the operational API
// (per-participant reminders, counts, per-occurrence status, previews) and
// the cleanup sweep that removes past occurrences.
package reminder
