package latefee_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/latefee"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func window(t *testing.T, id string, from, to finance.Date) latefee.ScheduleWindow {
	t.Helper()
	w, err := latefee.NewScheduleWindow(id, from, to, []string{"1-10,2.5", "11+,5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return w
}

// twoWindowsWithGap models a renegotiated contract: Jan-Jun, then Aug-Dec,
// with all of July uncovered.
func twoWindowsWithGap(t *testing.T) []latefee.ScheduleWindow {
	t.Helper()
	return []latefee.ScheduleWindow{
		window(t, "c-1",
			finance.NewDate(2025, time.January, 1),
			finance.NewDate(2025, time.June, 30)),
		window(t, "c-2",
			finance.NewDate(2025, time.August, 1),
			finance.NewDate(2025, time.December, 31)),
	}
}

// =============================================================================
// SINGLE-DATE RESOLUTION
// =============================================================================

func TestResolve_PicksCoveringWindow(t *testing.T) {
	windows := twoWindowsWithGap(t)

	w, err := latefee.Resolve(windows, finance.NewDate(2025, time.March, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ContractID != "c-1" {
		t.Errorf("expected c-1, got %s", w.ContractID)
	}

	w, err = latefee.Resolve(windows, finance.NewDate(2025, time.September, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ContractID != "c-2" {
		t.Errorf("expected c-2, got %s", w.ContractID)
	}
}

func TestResolve_GapBetweenContracts_NotFound(t *testing.T) {
	// GIVEN: Contracts covering Jan-Jun and Aug-Dec
	// WHEN: Resolving July 15
	// THEN: The gap is an explicit not-found error, never a silent default

	_, err := latefee.Resolve(twoWindowsWithGap(t), finance.NewDate(2025, time.July, 15))
	if !errors.Is(err, latefee.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}

	var nf *latefee.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("expected a NotFoundError with the date attached")
	}
	if !nf.Date.Equal(finance.NewDate(2025, time.July, 15)) {
		t.Errorf("expected the gap date in the error, got %s", nf.Date)
	}
}

func TestResolve_OverlappingWindows_Ambiguous(t *testing.T) {
	// Overlap means the contract data is corrupt; the resolver refuses
	// to pick a winner.
	windows := []latefee.ScheduleWindow{
		window(t, "c-1",
			finance.NewDate(2025, time.January, 1),
			finance.NewDate(2025, time.June, 30)),
		window(t, "c-dup",
			finance.NewDate(2025, time.June, 1),
			finance.NewDate(2025, time.December, 31)),
	}

	_, err := latefee.Resolve(windows, finance.NewDate(2025, time.June, 15))
	if !errors.Is(err, latefee.ErrAmbiguousSchedule) {
		t.Fatalf("expected ErrAmbiguousSchedule, got %v", err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	// Same inputs, same answer, state untouched across repeated calls.
	windows := twoWindowsWithGap(t)
	target := finance.NewDate(2025, time.February, 1)

	first, err := latefee.Resolve(windows, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := latefee.Resolve(windows, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ContractID != second.ContractID {
		t.Errorf("expected identical resolution, got %s then %s", first.ContractID, second.ContractID)
	}
}

// =============================================================================
// RANGE RESOLUTION
// =============================================================================

func TestResolveRange_OneEntryPerDay(t *testing.T) {
	// GIVEN: A range straddling the contract boundary and the July gap
	// WHEN: Resolving June 29 .. August 2
	// THEN: Every day gets an entry; gap days carry their error in place

	windows := twoWindowsWithGap(t)
	start := finance.NewDate(2025, time.June, 29)
	end := finance.NewDate(2025, time.August, 2)

	resolutions, err := latefee.ResolveRange(windows, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDays := finance.DaysBetween(start, end) + 1
	if len(resolutions) != wantDays {
		t.Fatalf("expected %d entries, got %d", wantDays, len(resolutions))
	}

	for _, res := range resolutions {
		switch {
		case res.Date.BeforeOrEqual(finance.NewDate(2025, time.June, 30)):
			if res.Err != nil || res.Window.ContractID != "c-1" {
				t.Errorf("%s: expected c-1, got window=%v err=%v", res.Date, res.Window, res.Err)
			}
		case res.Date.Before(finance.NewDate(2025, time.August, 1)):
			if !errors.Is(res.Err, latefee.ErrScheduleNotFound) {
				t.Errorf("%s: expected gap error, got %v", res.Date, res.Err)
			}
		default:
			if res.Err != nil || res.Window.ContractID != "c-2" {
				t.Errorf("%s: expected c-2, got window=%v err=%v", res.Date, res.Window, res.Err)
			}
		}
	}
}

func TestResolveRange_SingleDay(t *testing.T) {
	windows := twoWindowsWithGap(t)
	day := finance.NewDate(2025, time.March, 1)

	resolutions, err := latefee.ResolveRange(windows, day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolutions) != 1 || !resolutions[0].Date.Equal(day) {
		t.Fatalf("expected exactly the one day, got %v", resolutions)
	}
}

func TestResolveRange_InvertedRange_Rejected(t *testing.T) {
	windows := twoWindowsWithGap(t)

	_, err := latefee.ResolveRange(windows,
		finance.NewDate(2025, time.March, 2),
		finance.NewDate(2025, time.March, 1))
	if !errors.Is(err, latefee.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
