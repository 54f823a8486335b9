package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	policy "github.com/Sathya-1307/Alumini-Mentorship1/internal/domain/reminder"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
)

// LedgerPruner is implemented by ledgers whose entries are not removed
// together with their occurrences.
type LedgerPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// CleanupReport summarizes a cleanup sweep.
type CleanupReport struct {
	store.CleanupResult
	LedgerEntriesRemoved int       `json:"ledger_entries_removed"`
	Cutoff               time.Time `json:"cutoff"`
}

// Cleanup deletes occurrences dated before now and meetings left without
// occurrences. Future occurrences of the same meetings stay. Ledger entries
// old enough that their occurrence must be past are pruned as well.
func (e *Engine) Cleanup(ctx context.Context, now time.Time) (CleanupReport, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	report := CleanupReport{Cutoff: now}

	res, err := e.meetings.DeleteOccurrencesBefore(ctx, now)
	if err != nil {
		log.Error("cleanup sweep failed", slog.String("error", err.Error()))
		return report, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	report.CleanupResult = res

	if pruner, ok := e.ledger.(LedgerPruner); ok {
		cutoff := ledgerPruneCutoff(e.evaluator, now)
		n, err := pruner.Prune(ctx, cutoff)
		if err != nil {
			log.Warn("failed to prune reminder ledger", slog.String("error", err.Error()))
		}
		report.LedgerEntriesRemoved = n
	}

	e.metrics.CleanupCompleted(res.OccurrencesRemoved, res.MeetingsRemoved, report.LedgerEntriesRemoved)
	log.Info("cleanup completed",
		slog.Int("occurrences_removed", res.OccurrencesRemoved),
		slog.Int("meetings_removed", res.MeetingsRemoved),
		slog.Int("ledger_entries_removed", report.LedgerEntriesRemoved))

	return report, nil
}

// ledgerPruneCutoff is the oldest send time whose occurrence may still be in
// the future: a reminder is never sent more than the largest window plus one
// day ahead.
func ledgerPruneCutoff(ev *policy.Evaluator, now time.Time) time.Time {
	return now.Add(-time.Duration(ev.Windows().Max()+1) * policy.Day)
}
