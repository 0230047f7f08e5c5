/*
Package settlement computes the date a repayment's funds clear.

PURPOSE:
  A repayment deposited on some date does not settle immediately; the
  contract assigns each repayment method a number of clearance business
  days. This package turns (method, deposit date, clearance config) into
  the settlement date.

RULES:
  1. Look up the method's clearance days; an absent method means same-day
     settlement. Reverse Draft ACH conventionally clears in one business
     day, so config builders apply DefaultACHClearanceDays unless the
     contract overrides it.
  2. Advance the deposit date by that many BUSINESS days (weekends are
     never business days; holidays come from the injected calendar).
  3. If the landing date itself is not a business day, roll it: backward
     to the preceding business day when the contract carries the
     preceding-business-day term, forward otherwise. Only one direction
     is ever applied.

  The calculator is pure and deterministic: no I/O, same inputs always
  produce the same output.

SEE ALSO:
  - finance/date.go: Date and BusinessCalendar
  - contract: builds ClearanceTimelineConfig from contract terms
*/
package settlement

import (
	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// REPAYMENT METHOD
// =============================================================================

type RepaymentMethod string

const (
	MethodReverseDraftACH RepaymentMethod = "reverse_draft_ach"
	MethodWire            RepaymentMethod = "wire"
	MethodCheck           RepaymentMethod = "check"
	MethodOther           RepaymentMethod = "other"
)

// DefaultACHClearanceDays is the conventional clearance for Reverse Draft
// ACH when the contract does not override it. Callers building a
// ClearanceTimelineConfig are responsible for applying this default; the
// calculator itself treats an absent method as zero days.
const DefaultACHClearanceDays = 1

// Methods lists every known repayment method.
var Methods = []RepaymentMethod{MethodReverseDraftACH, MethodWire, MethodCheck, MethodOther}

// ParseMethod maps a wire-format string to a RepaymentMethod.
func ParseMethod(s string) (RepaymentMethod, bool) {
	for _, m := range Methods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// =============================================================================
// CLEARANCE TIMELINE CONFIG - Per-contract settlement rule
// =============================================================================

// ClearanceTimelineConfig is the per-contract settlement rule: clearance
// business days per method plus the direction a non-business landing date
// is shifted. Immutable for the life of one calculation.
type ClearanceTimelineConfig struct {
	DaysFor map[RepaymentMethod]int

	// UsePrecedingBusinessDay rolls a non-business landing date backward
	// to the preceding business day instead of forward.
	UsePrecedingBusinessDay bool
}

// ClearanceDays returns the configured days for a method, or 0 when the
// method is absent (same-day settlement).
func (c ClearanceTimelineConfig) ClearanceDays(m RepaymentMethod) int {
	return c.DaysFor[m]
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator derives settlement dates. The zero value uses the weekend-only
// calendar; inject a holiday-aware calendar to extend it.
type Calculator struct {
	Calendar finance.BusinessCalendar
}

func NewCalculator(cal finance.BusinessCalendar) *Calculator {
	if cal == nil {
		cal = finance.WeekdayCalendar{}
	}
	return &Calculator{Calendar: cal}
}

// SettlementDate advances the deposit date by the method's clearance
// business days and rolls the result onto a business day per the config.
func (c *Calculator) SettlementDate(method RepaymentMethod, deposit finance.Date, cfg ClearanceTimelineConfig) finance.Date {
	cal := c.Calendar
	if cal == nil {
		cal = finance.WeekdayCalendar{}
	}

	d := deposit
	for i := 0; i < cfg.ClearanceDays(method); i++ {
		d = nextBusinessDay(cal, d)
	}

	// Zero clearance days (or a deposit already past the count) can still
	// land on a non-business day; shift once in the configured direction.
	if !cal.IsBusinessDay(d) {
		if cfg.UsePrecedingBusinessDay {
			d = precedingBusinessDay(cal, d)
		} else {
			d = nextBusinessDay(cal, d)
		}
	}
	return d
}

func nextBusinessDay(cal finance.BusinessCalendar, d finance.Date) finance.Date {
	d = d.AddDays(1)
	for !cal.IsBusinessDay(d) {
		d = d.AddDays(1)
	}
	return d
}

func precedingBusinessDay(cal finance.BusinessCalendar, d finance.Date) finance.Date {
	d = d.AddDays(-1)
	for !cal.IsBusinessDay(d) {
		d = d.AddDays(-1)
	}
	return d
}
