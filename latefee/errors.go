package latefee

import (
	"errors"
	"fmt"

	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrScheduleParse is returned when a fee-schedule entry cannot be
	// parsed into a range/fee pair.
	ErrScheduleParse = errors.New("malformed fee schedule entry")

	// ErrScheduleNotFound is returned when no contract window covers the
	// requested date.
	ErrScheduleNotFound = errors.New("no fee schedule for date")

	// ErrAmbiguousSchedule is returned when more than one window covers
	// the requested date. The history is the caller's to partition; the
	// resolver never picks one.
	ErrAmbiguousSchedule = errors.New("multiple fee schedules for date")

	// ErrInvalidRange is returned when a range query's end precedes its start.
	ErrInvalidRange = errors.New("invalid date range: end before start")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ParseError describes a malformed schedule entry.
type ParseError struct {
	Entry  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse fee schedule entry %q: %s", e.Entry, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrScheduleParse }

// NotFoundError identifies the uncovered date.
type NotFoundError struct {
	Date finance.Date
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no contract window covers %s", e.Date)
}

func (e *NotFoundError) Unwrap() error { return ErrScheduleNotFound }

// AmbiguousError identifies a date covered by overlapping windows.
type AmbiguousError struct {
	Date    finance.Date
	Matches int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d contract windows cover %s", e.Matches, e.Date)
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguousSchedule }
