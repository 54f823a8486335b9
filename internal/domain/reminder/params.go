package reminder

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

// Standard reminder windows.
const (
	WeekBefore      domain.ReminderWindow = 7
	ThreeDaysBefore domain.ReminderWindow = 3
)

// Day is the length of one whole day in the day-delta arithmetic.
const Day = 24 * time.Hour

// DefaultWindows is the window set used when none is configured.
var DefaultWindows = Windows{WeekBefore, ThreeDaysBefore}

// ErrNoWindows is returned when a window set is empty.
var ErrNoWindows = errors.New("at least one reminder window is required")

// Windows is an ordered set of reminder windows, largest first, without
// duplicates.
type Windows []domain.ReminderWindow

// NewWindows builds a normalized window set from day offsets.
// Duplicates collapse; zero or negative offsets are rejected.
func NewWindows(days ...int) (Windows, error) {
	if len(days) == 0 {
		return nil, ErrNoWindows
	}

	ws := make(Windows, 0, len(days))
	for _, d := range days {
		w := domain.ReminderWindow(d)
		if !w.Valid() {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidWindow, d)
		}
		ws = append(ws, w)
	}

	slices.Sort(ws)
	ws = slices.Compact(ws)
	slices.Reverse(ws)
	return ws, nil
}

// Max returns the largest window, or 0 for an empty set.
func (ws Windows) Max() domain.ReminderWindow {
	if len(ws) == 0 {
		return 0
	}
	return ws[0]
}

// Min returns the smallest window, or 0 for an empty set.
func (ws Windows) Min() domain.ReminderWindow {
	if len(ws) == 0 {
		return 0
	}
	return ws[len(ws)-1]
}

// Contains reports whether days matches one of the windows.
func (ws Windows) Contains(days int) bool {
	return slices.Contains(ws, domain.ReminderWindow(days))
}

// Days returns the windows as plain ints, largest first.
func (ws Windows) Days() []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = int(w)
	}
	return out
}

// Params defines the configurable parameters of the evaluator.
type Params struct {
	Windows Windows

	// CatchUp makes an occurrence due for the smallest window that is at
	// least its days-until value, so a missed trigger is recovered on the
	// next run. Only safe together with a sent ledger.
	CatchUp bool
}

// NewDefaultParams returns the {7, 3} window set without catch-up.
func NewDefaultParams() *Params {
	return &Params{Windows: slices.Clone(DefaultWindows)}
}

// NewParams builds Params from configured day offsets.
func NewParams(days []int, catchUp bool) (*Params, error) {
	ws, err := NewWindows(days...)
	if err != nil {
		return nil, err
	}
	return &Params{Windows: ws, CatchUp: catchUp}, nil
}
