// Package scheduler drives the reminder engine from a daily cron trigger
// and from manual requests.
package scheduler
