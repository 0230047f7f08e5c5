/*
resolver.go - Window selection by date

PURPOSE:
  Picks the contract window whose validity range contains a query date.
  The resolver is pure: same windows and date always return the same
  window, with no hidden caching skew.

FAILURE MODES:
  Zero matching windows: NotFoundError. A company can legitimately have a
  gap between sequential contracts; the caller decides what a gap means.

  More than one matching window: AmbiguousError. Windows are assumed
  non-overlapping (caller's responsibility to supply a correctly
  partitioned history); the resolver fails rather than guesses.

SEE ALSO:
  - schedule.go: ScheduleWindow construction and parsing
  - projection: feeds per-day resolutions into fee accrual
*/
package latefee

import (
	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// SINGLE-DATE RESOLUTION
// =============================================================================

// Resolve selects the window covering the target date. It returns a
// pointer into the supplied slice; callers must not mutate the result.
func Resolve(windows []ScheduleWindow, target finance.Date) (*ScheduleWindow, error) {
	var found *ScheduleWindow
	matches := 0
	for i := range windows {
		if windows[i].Covers(target) {
			found = &windows[i]
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, &NotFoundError{Date: target}
	case 1:
		return found, nil
	default:
		return nil, &AmbiguousError{Date: target, Matches: matches}
	}
}

// =============================================================================
// RANGE RESOLUTION - Batch form for forward projections
// =============================================================================

// DayResolution is one day's outcome: either a window or the error for
// that day (a gap resolves to a NotFoundError, not a missing entry).
type DayResolution struct {
	Date   finance.Date
	Window *ScheduleWindow
	Err    error
}

// ResolveRange resolves every calendar day in [start, end] inclusive,
// preserving per-day resolution. The returned slice has exactly one entry
// per day in order. An inverted range fails up front.
func ResolveRange(windows []ScheduleWindow, start, end finance.Date) ([]DayResolution, error) {
	r := finance.DateRange{Start: start, End: end}
	if !r.IsValid() {
		return nil, ErrInvalidRange
	}

	days := r.Days()
	resolutions := make([]DayResolution, 0, len(days))
	for _, day := range days {
		w, err := Resolve(windows, day)
		resolutions = append(resolutions, DayResolution{Date: day, Window: w, Err: err})
	}
	return resolutions, nil
}
