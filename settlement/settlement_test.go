package settlement_test

import (
	"testing"
	"time"

	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/settlement"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func achConfig(days int) settlement.ClearanceTimelineConfig {
	return settlement.ClearanceTimelineConfig{
		DaysFor: map[settlement.RepaymentMethod]int{
			settlement.MethodReverseDraftACH: days,
		},
	}
}

// =============================================================================
// BUSINESS-DAY ARITHMETIC
// =============================================================================

func TestSettlementDate_FridayACH_SkipsWeekend(t *testing.T) {
	// GIVEN: An ACH deposit on Friday 2025-06-13 with 1 clearance day
	// WHEN: Computing the settlement date
	// THEN: It lands on Monday 2025-06-16, never Saturday

	calc := settlement.NewCalculator(nil)
	friday := finance.NewDate(2025, time.June, 13)

	got := calc.SettlementDate(settlement.MethodReverseDraftACH, friday, achConfig(1))

	want := finance.NewDate(2025, time.June, 16)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSettlementDate_MidWeek_SimpleAdvance(t *testing.T) {
	// Tuesday + 2 business days = Thursday
	calc := settlement.NewCalculator(nil)
	tuesday := finance.NewDate(2025, time.June, 10)

	got := calc.SettlementDate(settlement.MethodReverseDraftACH, tuesday, achConfig(2))

	want := finance.NewDate(2025, time.June, 12)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSettlementDate_UnknownMethod_SameDay(t *testing.T) {
	// GIVEN: A wire deposit when the config only covers ACH
	// WHEN: Computing the settlement date on a business day
	// THEN: It settles same-day (absent method means zero clearance days)

	calc := settlement.NewCalculator(nil)
	wednesday := finance.NewDate(2025, time.June, 11)

	got := calc.SettlementDate(settlement.MethodWire, wednesday, achConfig(1))
	if !got.Equal(wednesday) {
		t.Errorf("expected same-day %s, got %s", wednesday, got)
	}
}

// =============================================================================
// NON-BUSINESS LANDING DATES
// =============================================================================

func TestSettlementDate_WeekendDeposit_RollsForward(t *testing.T) {
	// GIVEN: Zero clearance days and a Saturday deposit
	// WHEN: The contract does not carry the preceding-business-day term
	// THEN: The date rolls forward to Monday

	calc := settlement.NewCalculator(nil)
	saturday := finance.NewDate(2025, time.June, 14)

	got := calc.SettlementDate(settlement.MethodWire, saturday, settlement.ClearanceTimelineConfig{})

	want := finance.NewDate(2025, time.June, 16) // Monday
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSettlementDate_WeekendDeposit_RollsBackward(t *testing.T) {
	// GIVEN: Zero clearance days, Saturday deposit, preceding-business-day term
	// THEN: The date rolls backward to Friday

	calc := settlement.NewCalculator(nil)
	saturday := finance.NewDate(2025, time.June, 14)

	got := calc.SettlementDate(settlement.MethodWire, saturday, settlement.ClearanceTimelineConfig{
		UsePrecedingBusinessDay: true,
	})

	want := finance.NewDate(2025, time.June, 13) // Friday
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// =============================================================================
// HOLIDAY CALENDARS
// =============================================================================

func TestSettlementDate_HolidayCalendar_SkipsHoliday(t *testing.T) {
	// GIVEN: July 4 2025 (Friday) is a holiday
	// WHEN: An ACH deposit lands Thursday July 3 with 1 clearance day
	// THEN: Settlement skips the holiday weekend to Monday July 7

	july4 := finance.NewDate(2025, time.July, 4)
	calc := settlement.NewCalculator(finance.NewHolidayCalendar(july4))

	thursday := finance.NewDate(2025, time.July, 3)
	got := calc.SettlementDate(settlement.MethodReverseDraftACH, thursday, achConfig(1))

	want := finance.NewDate(2025, time.July, 7)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestSettlementDate_NeverLandsOnWeekend(t *testing.T) {
	// Every deposit day of a full year, every method, both roll directions:
	// the settlement date is always a business day.

	calc := settlement.NewCalculator(nil)
	configs := []settlement.ClearanceTimelineConfig{
		achConfig(1),
		{UsePrecedingBusinessDay: true},
		{DaysFor: map[settlement.RepaymentMethod]int{settlement.MethodCheck: 5}},
	}

	day := finance.NewDate(2025, time.January, 1)
	end := finance.NewDate(2025, time.December, 31)
	for day.BeforeOrEqual(end) {
		for _, cfg := range configs {
			for _, method := range settlement.Methods {
				got := calc.SettlementDate(method, day, cfg)
				if got.IsWeekend() {
					t.Fatalf("settlement for %s deposit %s landed on weekend %s", method, day, got)
				}
			}
		}
		day = day.AddDays(1)
	}
}

func TestSettlementDate_Deterministic(t *testing.T) {
	calc := settlement.NewCalculator(nil)
	deposit := finance.NewDate(2025, time.June, 13)

	first := calc.SettlementDate(settlement.MethodReverseDraftACH, deposit, achConfig(3))
	second := calc.SettlementDate(settlement.MethodReverseDraftACH, deposit, achConfig(3))

	if !first.Equal(second) {
		t.Errorf("expected deterministic output, got %s then %s", first, second)
	}
}

// =============================================================================
// METHOD PARSING
// =============================================================================

func TestParseMethod(t *testing.T) {
	m, ok := settlement.ParseMethod("reverse_draft_ach")
	if !ok || m != settlement.MethodReverseDraftACH {
		t.Errorf("expected reverse_draft_ach to parse, got %q ok=%v", m, ok)
	}

	if _, ok := settlement.ParseMethod("carrier_pigeon"); ok {
		t.Error("expected unknown method to fail")
	}
}
