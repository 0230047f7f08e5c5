/*
engine.go - Repayment allocation proposals

PURPOSE:
  Computes the proposed per-loan allocation for a repayment request. The
  proposal is what the customer or bank operator sees before confirming;
  the caller persists the resulting payment elsewhere.

ALGORITHM BY OPTION:
  PayInFull:      every bucket of every loan is cleared in full. A supplied
                  requested amount must match the computed total exactly
                  (this catches callers whose displayed balance is stale).
  PayMinimumDue:  interest + fees cleared, principal untouched.
  CustomAmount:   the engine does NOT auto-split. It returns an all-zero
                  proposal (optionally pre-filling a caller-designated
                  account-fees bucket) and expects the operator to supply
                  the final split via ApplyManualEdit, one field at a time.

  A line-of-credit product has no payoff schedule, so it always behaves
  as CustomAmount regardless of the requested option.

CONSERVATION:
  For PayInFull and PayMinimumDue the engine reconciles its own output
  before returning: sum of per-loan amounts must equal the total at the
  two-decimal currency grain. For CustomAmount the total is the requested
  amount and reconciliation happens when the caller confirms the
  hand-specified split (Proposal.Reconcile).

SEE ALSO:
  - snapshot.go: ApplyManualEdit for the operator editing flow
  - types.go: LoanBalance, Allocation, PaymentOption
*/
package allocation

import (
	"fmt"

	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine produces allocation proposals. It is stateless and safe for
// concurrent use; every call operates solely on its inputs.
type Engine struct{}

// ProposalInput carries everything Propose needs.
type ProposalInput struct {
	Option  PaymentOption
	Product Product

	// RequestedAmount is required for CustomAmount. For PayInFull and
	// PayMinimumDue it is optional; when supplied it is cross-checked
	// against the computed total.
	RequestedAmount *finance.Money

	// RequestedToAccountFees pre-fills the fee bucket of the designated
	// loan in a CustomAmount proposal. Explicit input, never inferred.
	RequestedToAccountFees *finance.Money

	// AccountFeesLoanID designates which loan receives the account-fees
	// pre-fill. Defaults to the first loan when empty.
	AccountFeesLoanID LoanID

	Loans []LoanBalance
}

// Proposal is the engine's output: a declared total and the per-loan
// allocations with before/after balances.
type Proposal struct {
	Option      PaymentOption
	TotalAmount finance.Money
	Allocations []Allocation
	Snapshots   []LoanBalanceSnapshot
}

// Propose computes the allocation for the requested option.
func (e *Engine) Propose(in ProposalInput) (*Proposal, error) {
	if len(in.Loans) == 0 {
		return nil, &ValidationError{Code: "no_loans", Message: "at least one loan balance is required"}
	}
	for _, lb := range in.Loans {
		if err := lb.Validate(); err != nil {
			return nil, err
		}
	}

	option := in.Option
	if in.Product == ProductLineOfCredit {
		option = CustomAmount
	}

	switch option {
	case PayInFull:
		return e.proposeInFull(in)
	case PayMinimumDue:
		return e.proposeMinimumDue(in)
	case CustomAmount:
		return e.proposeCustom(in)
	default:
		return nil, &ValidationError{
			Code:    "unknown_option",
			Message: fmt.Sprintf("unknown payment option %q", in.Option),
		}
	}
}

func (e *Engine) proposeInFull(in ProposalInput) (*Proposal, error) {
	total := finance.Zero
	allocs := make([]Allocation, 0, len(in.Loans))
	for _, lb := range in.Loans {
		allocs = append(allocs, Allocation{
			LoanID:      lb.LoanID,
			ToPrincipal: lb.OutstandingPrincipal,
			ToInterest:  lb.OutstandingInterest,
			ToFees:      lb.OutstandingFees,
		})
		total = total.Add(lb.Total())
	}

	if in.RequestedAmount != nil && !in.RequestedAmount.EqualRounded(total) {
		return nil, &ValidationError{
			Code: "requested_amount_mismatch",
			Message: fmt.Sprintf("requested %s does not match full payoff %s",
				*in.RequestedAmount, total),
		}
	}

	return e.finish(PayInFull, total, allocs, in.Loans)
}

func (e *Engine) proposeMinimumDue(in ProposalInput) (*Proposal, error) {
	total := finance.Zero
	allocs := make([]Allocation, 0, len(in.Loans))
	for _, lb := range in.Loans {
		allocs = append(allocs, Allocation{
			LoanID:      lb.LoanID,
			ToPrincipal: finance.Zero,
			ToInterest:  lb.OutstandingInterest,
			ToFees:      lb.OutstandingFees,
		})
		total = total.Add(lb.MinimumDue())
	}

	if in.RequestedAmount != nil && !in.RequestedAmount.EqualRounded(total) {
		return nil, &ValidationError{
			Code: "requested_amount_mismatch",
			Message: fmt.Sprintf("requested %s does not match minimum due %s",
				*in.RequestedAmount, total),
		}
	}

	return e.finish(PayMinimumDue, total, allocs, in.Loans)
}

// proposeCustom returns a single-bucket proposal: all allocations start at
// zero except the designated account-fees bucket. The operator supplies the
// final split through ApplyManualEdit; the engine never auto-waterfalls a
// custom amount.
func (e *Engine) proposeCustom(in ProposalInput) (*Proposal, error) {
	if in.RequestedAmount == nil || !in.RequestedAmount.IsPositive() {
		return nil, &ValidationError{
			Code:    "missing_requested_amount",
			Message: "custom amount repayments require a positive requested amount",
		}
	}

	allocs := make([]Allocation, 0, len(in.Loans))
	for _, lb := range in.Loans {
		allocs = append(allocs, ZeroAllocation(lb.LoanID))
	}

	if in.RequestedToAccountFees != nil && !in.RequestedToAccountFees.IsZero() {
		fees := *in.RequestedToAccountFees
		if fees.IsNegative() {
			return nil, &ValidationError{
				Code:    "negative_account_fees",
				Message: "requested account fees must not be negative",
			}
		}
		if fees.GreaterThan(*in.RequestedAmount) {
			return nil, &ValidationError{
				Code:    "account_fees_exceed_total",
				Message: "requested account fees exceed the requested amount",
			}
		}

		idx := e.accountFeesIndex(in)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrLoanNotFound, in.AccountFeesLoanID)
		}
		target := in.Loans[idx]
		if fees.GreaterThan(target.OutstandingFees) {
			return nil, &OverAllocationError{
				LoanID:      target.LoanID,
				Field:       FieldFees,
				Requested:   fees,
				Outstanding: target.OutstandingFees,
			}
		}
		allocs[idx] = allocs[idx].WithField(FieldFees, fees)
	}

	snapshots, err := buildSnapshots(in.Loans, allocs)
	if err != nil {
		return nil, err
	}

	return &Proposal{
		Option:      CustomAmount,
		TotalAmount: *in.RequestedAmount,
		Allocations: allocs,
		Snapshots:   snapshots,
	}, nil
}

func (e *Engine) accountFeesIndex(in ProposalInput) int {
	if in.AccountFeesLoanID == "" {
		return 0
	}
	for i, lb := range in.Loans {
		if lb.LoanID == in.AccountFeesLoanID {
			return i
		}
	}
	return -1
}

// finish builds snapshots and self-checks conservation before returning.
func (e *Engine) finish(option PaymentOption, total finance.Money, allocs []Allocation, loans []LoanBalance) (*Proposal, error) {
	snapshots, err := buildSnapshots(loans, allocs)
	if err != nil {
		return nil, err
	}
	p := &Proposal{Option: option, TotalAmount: total, Allocations: allocs, Snapshots: snapshots}
	if err := p.Reconcile(); err != nil {
		return nil, err
	}
	return p, nil
}

func buildSnapshots(loans []LoanBalance, allocs []Allocation) ([]LoanBalanceSnapshot, error) {
	snapshots := make([]LoanBalanceSnapshot, 0, len(loans))
	for i, lb := range loans {
		snap, err := NewSnapshot(lb, allocs[i])
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// =============================================================================
// RECONCILIATION - Conservation of money
// =============================================================================

// Reconcile verifies that the allocations sum to the declared total within
// the two-decimal currency tolerance. A mismatch is a ReconciliationError,
// never silently corrected.
func Reconcile(total finance.Money, allocs []Allocation) error {
	sum := SumAmounts(allocs)
	if !sum.EqualRounded(total) {
		return &ReconciliationError{Declared: total, Allocated: sum}
	}
	return nil
}

// Reconcile checks the proposal's own total against its allocations. For a
// fresh CustomAmount proposal this fails until the operator completes the
// split; callers run it at confirmation time.
func (p *Proposal) Reconcile() error {
	return Reconcile(p.TotalAmount, p.Allocations)
}
