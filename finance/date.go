package finance

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (UTC)
// =============================================================================

// Date is a calendar date normalized to UTC midnight. Two Dates constructed
// for the same day compare equal with ==, so Date works as a map key.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO date like "2026-03-10".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.Time.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// DaysBetween returns the number of calendar days from 'from' to 'to'
// (negative when 'to' precedes 'from').
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// =============================================================================
// DATE RANGE - Inclusive [Start, End]
// =============================================================================

type DateRange struct {
	Start Date
	End   Date
}

// Contains returns true if d is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// IsValid returns true if End does not precede Start.
func (r DateRange) IsValid() bool {
	return !r.End.Before(r.Start)
}

// Days returns every calendar day in the range, inclusive.
func (r DateRange) Days() []Date {
	var days []Date
	current := r.Start
	for current.BeforeOrEqual(r.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// BUSINESS CALENDAR - Injectable "is this a business day?" predicate
// =============================================================================

// BusinessCalendar answers whether a date is a banking day. The settlement
// calculator only ever moves dates through this interface, so callers can
// layer market holidays on top of the weekend rule.
type BusinessCalendar interface {
	IsBusinessDay(d Date) bool
}

// WeekdayCalendar is the minimum calendar: Monday through Friday are
// business days, nothing else is considered.
type WeekdayCalendar struct{}

func (WeekdayCalendar) IsBusinessDay(d Date) bool { return !d.IsWeekend() }

// HolidayCalendar extends the weekend rule with an explicit holiday set.
type HolidayCalendar struct {
	Holidays map[Date]bool
}

func NewHolidayCalendar(holidays ...Date) *HolidayCalendar {
	set := make(map[Date]bool, len(holidays))
	for _, h := range holidays {
		set[h] = true
	}
	return &HolidayCalendar{Holidays: set}
}

func (c *HolidayCalendar) IsBusinessDay(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	return !c.Holidays[d]
}
