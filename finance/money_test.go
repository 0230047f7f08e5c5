package finance_test

import (
	"testing"

	"github.com/warp/repayment-engine/finance"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := finance.MustParseMoney("1000.00")
	b := finance.MustParseMoney("25.50")

	sum := a.Add(b)
	if sum.String() != "1025.50" {
		t.Errorf("expected 1025.50, got %s", sum)
	}

	diff := a.Sub(b)
	if diff.String() != "974.50" {
		t.Errorf("expected 974.50, got %s", diff)
	}
}

func TestMoney_NoFloatDrift(t *testing.T) {
	// GIVEN: Values that do not add cleanly in binary floating point
	// WHEN: Summing them as decimals
	// THEN: The result is exact

	total := finance.Zero
	cent := finance.MustParseMoney("0.10")
	for i := 0; i < 10; i++ {
		total = total.Add(cent)
	}

	if !total.Equal(finance.MustParseMoney("1.00")) {
		t.Errorf("expected exactly 1.00, got %s", total)
	}
}

func TestMoney_EqualRounded(t *testing.T) {
	a := finance.MustParseMoney("100.004")
	b := finance.MustParseMoney("100.00")

	if !a.EqualRounded(b) {
		t.Errorf("expected %s and %s to match at 2dp", a, b)
	}

	c := finance.MustParseMoney("100.01")
	if a.EqualRounded(c) {
		t.Errorf("expected %s and %s to differ at 2dp", a, c)
	}
}

func TestMoney_Comparisons(t *testing.T) {
	small := finance.NewMoney(10)
	big := finance.NewMoney(20)

	if !small.LessThan(big) {
		t.Error("expected 10 < 20")
	}
	if !big.GreaterThan(small) {
		t.Error("expected 20 > 10")
	}
	if !small.Min(big).Equal(small) {
		t.Error("expected Min to return 10")
	}
	if !small.Max(big).Equal(big) {
		t.Error("expected Max to return 20")
	}
	if !small.Neg().IsNegative() {
		t.Error("expected negated value to be negative")
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	if _, err := finance.ParseMoney("not-a-number"); err == nil {
		t.Error("expected error for invalid decimal")
	}
}
