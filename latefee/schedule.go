/*
Package latefee resolves which late-fee schedule applies on a given date.

PURPOSE:
  A company's contract history is a sequence of validity windows, each
  carrying a days-late -> fee-percentage table. Forward-projection callers
  ask "which fee table governs this date?" for a single day or for every
  day in a range. Gaps between contracts are a defined condition, never a
  silent default.

KEY CONCEPTS IN THIS FILE (schedule.go):
  - FeeBand: one days-late range with its fee percentage
  - Schedule: an ordered list of bands with lookup by days late
  - ScheduleWindow: a contract validity window carrying a Schedule

ENTRY FORMAT:
  Contract configuration stores the fee table as strings, one band each:
    "<start>-<end>,<fee>"   e.g. "1-10,2.5"   (days 1..10 late, 2.5%)
    "<start>+,<fee>"        e.g. "31+,10"     (open-ended from day 31)
  Entries are parsed ONCE when the window is constructed; a malformed
  entry fails with ScheduleParseError rather than being skipped.

SEE ALSO:
  - resolver.go: Window selection by date
  - contract: builds ScheduleWindows from contract terms JSON
*/
package latefee

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// FEE BAND - One days-late range
// =============================================================================

// FeeBand is one row of the fee table: days late in [From, To] incur Fee
// percent. To is nil for an open-ended band.
type FeeBand struct {
	From int
	To   *int
	Fee  decimal.Decimal
}

// Contains returns true if daysLate falls in this band.
func (b FeeBand) Contains(daysLate int) bool {
	if daysLate < b.From {
		return false
	}
	return b.To == nil || daysLate <= *b.To
}

func (b FeeBand) String() string {
	if b.To == nil {
		return strconv.Itoa(b.From) + "+," + b.Fee.String()
	}
	return strconv.Itoa(b.From) + "-" + strconv.Itoa(*b.To) + "," + b.Fee.String()
}

// ParseBand parses one schedule entry.
func ParseBand(entry string) (FeeBand, error) {
	parts := strings.Split(entry, ",")
	if len(parts) != 2 {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "expected \"<range>,<fee>\""}
	}
	rangePart := strings.TrimSpace(parts[0])
	feePart := strings.TrimSpace(parts[1])

	fee, err := decimal.NewFromString(feePart)
	if err != nil {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "fee is not a decimal"}
	}
	if fee.IsNegative() {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "fee is negative"}
	}

	if open, ok := strings.CutSuffix(rangePart, "+"); ok {
		from, err := strconv.Atoi(open)
		if err != nil || from < 0 {
			return FeeBand{}, &ParseError{Entry: entry, Reason: "invalid open-ended range start"}
		}
		return FeeBand{From: from, Fee: fee}, nil
	}

	bounds := strings.Split(rangePart, "-")
	if len(bounds) != 2 {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "expected \"<start>-<end>\" or \"<start>+\""}
	}
	from, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil || from < 0 {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "invalid range start"}
	}
	to, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil || to < from {
		return FeeBand{}, &ParseError{Entry: entry, Reason: "invalid range end"}
	}
	return FeeBand{From: from, To: &to, Fee: fee}, nil
}

// =============================================================================
// SCHEDULE - Ordered fee table
// =============================================================================

type Schedule struct {
	Bands []FeeBand
}

// ParseSchedule parses every entry. Entries keep their configured order.
func ParseSchedule(entries []string) (Schedule, error) {
	bands := make([]FeeBand, 0, len(entries))
	for _, entry := range entries {
		band, err := ParseBand(entry)
		if err != nil {
			return Schedule{}, err
		}
		bands = append(bands, band)
	}
	return Schedule{Bands: bands}, nil
}

// BandFor returns the first band containing daysLate.
func (s Schedule) BandFor(daysLate int) (FeeBand, bool) {
	for _, b := range s.Bands {
		if b.Contains(daysLate) {
			return b, true
		}
	}
	return FeeBand{}, false
}

// Entries re-serializes the schedule to its configured string form.
func (s Schedule) Entries() []string {
	entries := make([]string, len(s.Bands))
	for i, b := range s.Bands {
		entries[i] = b.String()
	}
	return entries
}

// =============================================================================
// SCHEDULE WINDOW - Contract-effective-dated fee table
// =============================================================================

// ScheduleWindow is one contract's validity window carrying its parsed fee
// schedule. Windows across a company's contract history are expected to be
// non-overlapping; the resolver fails rather than guesses otherwise.
type ScheduleWindow struct {
	ContractID string
	Validity   finance.DateRange
	Schedule   Schedule
}

// NewScheduleWindow parses the entries once and caches the typed schedule
// in the window, so lookups never re-parse.
func NewScheduleWindow(contractID string, from, to finance.Date, entries []string) (ScheduleWindow, error) {
	schedule, err := ParseSchedule(entries)
	if err != nil {
		return ScheduleWindow{}, err
	}
	return ScheduleWindow{
		ContractID: contractID,
		Validity:   finance.DateRange{Start: from, End: to},
		Schedule:   schedule,
	}, nil
}

// Covers returns true if the window's validity range contains the date.
func (w ScheduleWindow) Covers(d finance.Date) bool {
	return w.Validity.Contains(d)
}
