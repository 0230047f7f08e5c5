/*
Package allocation implements the repayment allocation engine.

PURPOSE:
  Turns a requested repayment into a per-loan allocation across the
  principal, interest, and fee buckets, and supports the manual
  reconciliation flow where a bank operator edits one field at a time.

KEY CONCEPTS IN THIS FILE (types.go):
  - LoanBalance: one loan's money state at a point in time (read-only input)
  - PaymentOption: the repayment intent (minimum due, in full, custom)
  - Allocation: the per-loan output, one amount per bucket
  - Field: names a bucket for manual edits

INVARIANTS:
  1. Every outstanding bucket is non-negative
  2. An allocation never overpays a bucket or goes negative
  3. Sum of allocation amounts equals the declared total (2dp tolerance)

SEE ALSO:
  - engine.go: Propose and Reconcile
  - snapshot.go: Before/after balances and manual edits
*/
package allocation

import (
	"fmt"

	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LoanID string

// =============================================================================
// LOAN BALANCE - Read-only input from the loan ledger
// =============================================================================

// LoanBalance is one loan's money state at a point in time. It is created
// and refreshed by the external loan-ledger service; this package only
// reads it.
type LoanBalance struct {
	LoanID               LoanID
	OutstandingPrincipal finance.Money
	OutstandingInterest  finance.Money
	OutstandingFees      finance.Money
	MaturityDate         finance.Date
}

// Total returns principal + interest + fees.
func (lb LoanBalance) Total() finance.Money {
	return lb.OutstandingPrincipal.Add(lb.OutstandingInterest).Add(lb.OutstandingFees)
}

// MinimumDue returns interest + fees.
func (lb LoanBalance) MinimumDue() finance.Money {
	return lb.OutstandingInterest.Add(lb.OutstandingFees)
}

// Outstanding returns the named bucket.
func (lb LoanBalance) Outstanding(f Field) finance.Money {
	switch f {
	case FieldPrincipal:
		return lb.OutstandingPrincipal
	case FieldInterest:
		return lb.OutstandingInterest
	default:
		return lb.OutstandingFees
	}
}

// Validate checks the non-negativity invariant on every bucket.
func (lb LoanBalance) Validate() error {
	for _, f := range Fields {
		if lb.Outstanding(f).IsNegative() {
			return &ValidationError{
				Code:    "negative_balance",
				Message: fmt.Sprintf("loan %s has negative outstanding %s", lb.LoanID, f),
			}
		}
	}
	return nil
}

// =============================================================================
// PAYMENT OPTION - Repayment intent
// =============================================================================

type PaymentOption string

const (
	// PayMinimumDue clears interest + fees only.
	PayMinimumDue PaymentOption = "pay_minimum_due"

	// PayInFull clears principal + interest + fees.
	PayInFull PaymentOption = "pay_in_full"

	// CustomAmount is a caller-supplied total; the per-loan, per-bucket
	// split is hand-specified by the operator, never auto-waterfalled.
	CustomAmount PaymentOption = "custom_amount"
)

// ParseOption validates an option string from an external edge.
func ParseOption(s string) (PaymentOption, bool) {
	switch PaymentOption(s) {
	case PayMinimumDue, PayInFull, CustomAmount:
		return PaymentOption(s), true
	}
	return "", false
}

// Product distinguishes term loans from lines of credit. A line of credit
// has no fixed payoff schedule, so it always behaves as CustomAmount.
type Product string

const (
	ProductLoan         Product = "loan"
	ProductLineOfCredit Product = "line_of_credit"
)

// ParseProduct validates a product string from an external edge.
func ParseProduct(s string) (Product, bool) {
	switch Product(s) {
	case ProductLoan, ProductLineOfCredit:
		return Product(s), true
	}
	return "", false
}

// =============================================================================
// FIELD - Names a bucket for manual edits
// =============================================================================

type Field string

const (
	FieldPrincipal Field = "principal"
	FieldInterest  Field = "interest"
	FieldFees      Field = "fees"
)

// Fields lists every bucket in waterfall order (fees, interest, principal
// is the display order used by reconciliation screens; iteration order here
// is principal-first to match the balance layout).
var Fields = []Field{FieldPrincipal, FieldInterest, FieldFees}

// ParseField validates a field name from an external edge.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldPrincipal, FieldInterest, FieldFees:
		return Field(s), true
	}
	return "", false
}

// =============================================================================
// ALLOCATION - Per-loan output (a.k.a. the transaction)
// =============================================================================

// Allocation is the per-loan split of a repayment. Each To* component must
// stay within [0, outstanding] of the matching LoanBalance bucket.
type Allocation struct {
	LoanID      LoanID
	ToPrincipal finance.Money
	ToInterest  finance.Money
	ToFees      finance.Money
}

// Amount is the derived total for this loan.
func (a Allocation) Amount() finance.Money {
	return a.ToPrincipal.Add(a.ToInterest).Add(a.ToFees)
}

// To returns the named bucket's allocation.
func (a Allocation) To(f Field) finance.Money {
	switch f {
	case FieldPrincipal:
		return a.ToPrincipal
	case FieldInterest:
		return a.ToInterest
	default:
		return a.ToFees
	}
}

// WithField returns a copy with the named bucket replaced.
func (a Allocation) WithField(f Field, v finance.Money) Allocation {
	switch f {
	case FieldPrincipal:
		a.ToPrincipal = v
	case FieldInterest:
		a.ToInterest = v
	default:
		a.ToFees = v
	}
	return a
}

// ZeroAllocation returns an all-zero allocation for a loan.
func ZeroAllocation(id LoanID) Allocation {
	return Allocation{
		LoanID:      id,
		ToPrincipal: finance.Zero,
		ToInterest:  finance.Zero,
		ToFees:      finance.Zero,
	}
}

// SumAmounts totals the per-loan amounts across a set of allocations.
func SumAmounts(allocs []Allocation) finance.Money {
	total := finance.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount())
	}
	return total
}
