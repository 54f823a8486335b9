package reminder

import (
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

// DaysUntil returns the ceiling of the whole-day difference between
// occurrence and now. Exact multiples of a day are not rounded up:
// 7×24h gives 7, 6×24h+1s also gives 7.
func DaysUntil(occurrence, now time.Time) int {
	d := occurrence.Sub(now)
	days := d / Day
	if d%Day > 0 {
		days++
	}
	return int(days)
}

// Evaluator decides which reminder window, if any, an occurrence is due for.
// It is pure and safe for concurrent use.
type Evaluator struct {
	params *Params
}

// NewEvaluator creates an Evaluator. Nil params use the defaults.
func NewEvaluator(params *Params) *Evaluator {
	if params == nil || len(params.Windows) == 0 {
		params = NewDefaultParams()
	}
	return &Evaluator{params: params}
}

// NewDefaultEvaluator creates an Evaluator for the default windows.
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(nil)
}

// Windows returns the configured window set.
func (e *Evaluator) Windows() Windows {
	return e.params.Windows
}

// CatchUp reports whether catch-up selection is enabled.
func (e *Evaluator) CatchUp() bool {
	return e.params.CatchUp
}

// DueWindow returns the window the occurrence is due for at now.
// Occurrences at or before now are never due. Without catch-up the window
// must equal DaysUntil exactly; with catch-up the smallest window not below
// DaysUntil is chosen.
func (e *Evaluator) DueWindow(occurrence, now time.Time) (domain.ReminderWindow, bool) {
	if !occurrence.After(now) {
		return 0, false
	}

	days := DaysUntil(occurrence, now)
	ws := e.params.Windows

	if !e.params.CatchUp {
		if ws.Contains(days) {
			return domain.ReminderWindow(days), true
		}
		return 0, false
	}

	// Windows are sorted largest first, so the last match is the smallest.
	var (
		due   domain.ReminderWindow
		found bool
	)
	for _, w := range ws {
		if int(w) >= days {
			due, found = w, true
		}
	}
	return due, found
}

// HorizonEnd is the exclusive upper bound of the range query a run needs:
// any occurrence due for the largest window lies before it.
func (e *Evaluator) HorizonEnd(now time.Time) time.Time {
	return now.Add(time.Duration(e.params.Windows.Max()+1) * Day)
}
