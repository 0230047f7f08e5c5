package allocation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) finance.Money {
	return finance.MustParseMoney(s)
}

func moneyPtr(s string) *finance.Money {
	m := money(s)
	return &m
}

// testLoan is the canonical balance: 1000.00 principal, 25.50 interest,
// 10.00 fees.
func testLoan(id string) allocation.LoanBalance {
	return allocation.LoanBalance{
		LoanID:               allocation.LoanID(id),
		OutstandingPrincipal: money("1000.00"),
		OutstandingInterest:  money("25.50"),
		OutstandingFees:      money("10.00"),
		MaturityDate:         finance.NewDate(2026, time.December, 31),
	}
}

// =============================================================================
// PAY IN FULL
// =============================================================================

func TestPropose_PayInFull_ClearsEveryBucket(t *testing.T) {
	// GIVEN: One loan with 1000.00 principal, 25.50 interest, 10.00 fees
	// WHEN: Proposing a pay-in-full repayment
	// THEN: Total is 1035.50 and every bucket is allocated in full

	engine := &allocation.Engine{}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.PayInFull,
		Product: allocation.ProductLoan,
		Loans:   []allocation.LoanBalance{testLoan("loan-1")},
	})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(money("1035.50")), "total = %s", p.TotalAmount)
	require.Len(t, p.Allocations, 1)
	assert.True(t, p.Allocations[0].ToPrincipal.Equal(money("1000.00")))
	assert.True(t, p.Allocations[0].ToInterest.Equal(money("25.50")))
	assert.True(t, p.Allocations[0].ToFees.Equal(money("10.00")))

	// After-balance is fully cleared
	require.Len(t, p.Snapshots, 1)
	assert.True(t, p.Snapshots[0].After.Total().IsZero())
}

func TestPropose_PayInFull_MultipleLoans_Conservation(t *testing.T) {
	// GIVEN: Three loans
	// WHEN: Proposing pay-in-full
	// THEN: The declared total equals the sum of per-loan amounts exactly

	engine := &allocation.Engine{}
	loans := []allocation.LoanBalance{testLoan("a"), testLoan("b"), testLoan("c")}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.PayInFull,
		Product: allocation.ProductLoan,
		Loans:   loans,
	})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(money("3106.50")))
	assert.True(t, allocation.SumAmounts(p.Allocations).Equal(p.TotalAmount))
	assert.NoError(t, p.Reconcile())
}

func TestPropose_PayInFull_StaleRequestedAmount_Rejected(t *testing.T) {
	// GIVEN: A caller whose displayed balance is stale
	// WHEN: The requested amount does not match the computed payoff
	// THEN: The proposal fails with a validation error

	engine := &allocation.Engine{}

	_, err := engine.Propose(allocation.ProposalInput{
		Option:          allocation.PayInFull,
		Product:         allocation.ProductLoan,
		RequestedAmount: moneyPtr("1000.00"),
		Loans:           []allocation.LoanBalance{testLoan("loan-1")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, allocation.ErrValidation))
}

// =============================================================================
// PAY MINIMUM DUE
// =============================================================================

func TestPropose_PayMinimumDue_InterestAndFeesOnly(t *testing.T) {
	// GIVEN: One loan with 1000.00 principal, 25.50 interest, 10.00 fees
	// WHEN: Proposing a minimum-due repayment
	// THEN: Total is 35.50, principal is untouched

	engine := &allocation.Engine{}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.PayMinimumDue,
		Product: allocation.ProductLoan,
		Loans:   []allocation.LoanBalance{testLoan("loan-1")},
	})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(money("35.50")), "total = %s", p.TotalAmount)
	require.Len(t, p.Allocations, 1)
	assert.True(t, p.Allocations[0].ToPrincipal.IsZero())
	assert.True(t, p.Allocations[0].ToInterest.Equal(money("25.50")))
	assert.True(t, p.Allocations[0].ToFees.Equal(money("10.00")))

	// Principal survives in the after-balance
	assert.True(t, p.Snapshots[0].After.OutstandingPrincipal.Equal(money("1000.00")))
	assert.True(t, p.Snapshots[0].After.MinimumDue().IsZero())
}

func TestPropose_PayMinimumDue_RequestedAmountCrossChecked(t *testing.T) {
	engine := &allocation.Engine{}

	// Matching requested amount passes
	_, err := engine.Propose(allocation.ProposalInput{
		Option:          allocation.PayMinimumDue,
		Product:         allocation.ProductLoan,
		RequestedAmount: moneyPtr("35.50"),
		Loans:           []allocation.LoanBalance{testLoan("loan-1")},
	})
	assert.NoError(t, err)

	// Mismatch is rejected
	_, err = engine.Propose(allocation.ProposalInput{
		Option:          allocation.PayMinimumDue,
		Product:         allocation.ProductLoan,
		RequestedAmount: moneyPtr("35.49"),
		Loans:           []allocation.LoanBalance{testLoan("loan-1")},
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))
}

// =============================================================================
// CUSTOM AMOUNT
// =============================================================================

func TestPropose_CustomAmount_StartsAllZero(t *testing.T) {
	// GIVEN: A custom repayment of 500.00 across two loans
	// WHEN: Proposing
	// THEN: Every allocation starts at zero; the split is the operator's job

	engine := &allocation.Engine{}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:          allocation.CustomAmount,
		Product:         allocation.ProductLoan,
		RequestedAmount: moneyPtr("500.00"),
		Loans:           []allocation.LoanBalance{testLoan("a"), testLoan("b")},
	})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(money("500.00")))
	for _, a := range p.Allocations {
		assert.True(t, a.Amount().IsZero())
	}

	// A fresh custom proposal does not reconcile until the operator
	// completes the split.
	assert.True(t, errors.Is(p.Reconcile(), allocation.ErrReconciliation))
}

func TestPropose_CustomAmount_AccountFeesPreFill(t *testing.T) {
	// GIVEN: A custom repayment with 5.00 explicitly routed to account fees
	// WHEN: Proposing with loan "b" designated
	// THEN: Only loan b's fee bucket is pre-filled

	engine := &allocation.Engine{}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:                 allocation.CustomAmount,
		Product:                allocation.ProductLoan,
		RequestedAmount:        moneyPtr("500.00"),
		RequestedToAccountFees: moneyPtr("5.00"),
		AccountFeesLoanID:      "b",
		Loans:                  []allocation.LoanBalance{testLoan("a"), testLoan("b")},
	})
	require.NoError(t, err)

	assert.True(t, p.Allocations[0].Amount().IsZero())
	assert.True(t, p.Allocations[1].ToFees.Equal(money("5.00")))
	assert.True(t, p.Allocations[1].ToPrincipal.IsZero())
}

func TestPropose_CustomAmount_AccountFeesValidation(t *testing.T) {
	engine := &allocation.Engine{}
	loans := []allocation.LoanBalance{testLoan("a")}

	// Fees exceeding the requested total
	_, err := engine.Propose(allocation.ProposalInput{
		Option:                 allocation.CustomAmount,
		Product:                allocation.ProductLoan,
		RequestedAmount:        moneyPtr("5.00"),
		RequestedToAccountFees: moneyPtr("6.00"),
		Loans:                  loans,
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))

	// Fees exceeding the loan's outstanding fee bucket (10.00)
	_, err = engine.Propose(allocation.ProposalInput{
		Option:                 allocation.CustomAmount,
		Product:                allocation.ProductLoan,
		RequestedAmount:        moneyPtr("500.00"),
		RequestedToAccountFees: moneyPtr("10.01"),
		Loans:                  loans,
	})
	assert.True(t, errors.Is(err, allocation.ErrOverAllocation))

	// Unknown designated loan
	_, err = engine.Propose(allocation.ProposalInput{
		Option:                 allocation.CustomAmount,
		Product:                allocation.ProductLoan,
		RequestedAmount:        moneyPtr("500.00"),
		RequestedToAccountFees: moneyPtr("1.00"),
		AccountFeesLoanID:      "nope",
		Loans:                  loans,
	})
	assert.True(t, errors.Is(err, allocation.ErrLoanNotFound))
}

func TestPropose_CustomAmount_RequiresPositiveAmount(t *testing.T) {
	engine := &allocation.Engine{}

	_, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.CustomAmount,
		Product: allocation.ProductLoan,
		Loans:   []allocation.LoanBalance{testLoan("a")},
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))

	_, err = engine.Propose(allocation.ProposalInput{
		Option:          allocation.CustomAmount,
		Product:         allocation.ProductLoan,
		RequestedAmount: moneyPtr("0.00"),
		Loans:           []allocation.LoanBalance{testLoan("a")},
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))
}

func TestPropose_LineOfCredit_AlwaysCustom(t *testing.T) {
	// GIVEN: A line-of-credit product
	// WHEN: Requesting pay-in-full
	// THEN: The proposal behaves as custom amount (no payoff schedule)

	engine := &allocation.Engine{}

	p, err := engine.Propose(allocation.ProposalInput{
		Option:          allocation.PayInFull,
		Product:         allocation.ProductLineOfCredit,
		RequestedAmount: moneyPtr("200.00"),
		Loans:           []allocation.LoanBalance{testLoan("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, allocation.CustomAmount, p.Option)
	assert.True(t, allocation.SumAmounts(p.Allocations).IsZero())
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func TestPropose_NoLoans_Rejected(t *testing.T) {
	engine := &allocation.Engine{}

	_, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.PayInFull,
		Product: allocation.ProductLoan,
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))
}

func TestPropose_NegativeBalance_Rejected(t *testing.T) {
	engine := &allocation.Engine{}

	bad := testLoan("a")
	bad.OutstandingInterest = money("-1.00")

	_, err := engine.Propose(allocation.ProposalInput{
		Option:  allocation.PayInFull,
		Product: allocation.ProductLoan,
		Loans:   []allocation.LoanBalance{bad},
	})
	assert.True(t, errors.Is(err, allocation.ErrValidation))
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcile_MismatchDetected(t *testing.T) {
	// GIVEN: Allocations summing to 100.00 against a declared 101.00
	// WHEN: Reconciling
	// THEN: A ReconciliationError reports both sides; nothing is corrected

	allocs := []allocation.Allocation{{
		LoanID:      "a",
		ToPrincipal: money("100.00"),
	}}

	err := allocation.Reconcile(money("101.00"), allocs)
	require.Error(t, err)

	var recErr *allocation.ReconciliationError
	require.True(t, errors.As(err, &recErr))
	assert.True(t, recErr.Declared.Equal(money("101.00")))
	assert.True(t, recErr.Allocated.Equal(money("100.00")))
}

func TestReconcile_SubCentDifferenceTolerated(t *testing.T) {
	// Sums matching at the 2dp currency grain reconcile.
	allocs := []allocation.Allocation{{
		LoanID:      "a",
		ToPrincipal: money("100.001"),
	}}

	assert.NoError(t, allocation.Reconcile(money("100.00"), allocs))
}
