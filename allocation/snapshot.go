/*
snapshot.go - Before/after balances and manual reconciliation edits

PURPOSE:
  A LoanBalanceSnapshot pairs a loan's balance before a repayment with the
  balance after the allocation is applied. During manual reconciliation the
  operator edits one bucket at a time; each edit is an explicit, pure call
  that returns a NEW snapshot. The caller (a form-state store or reducer)
  holds the authoritative mutable state, not this package.

EDIT SEMANTICS:
  ApplyManualEdit(snap, field, value):
    1. Validates 0 <= value <= snap.Before.Outstanding(field)
    2. Rewrites that one bucket of the allocation
    3. Recomputes the loan's after-balance
  An edit never rebalances other loans; callers re-invoke per loan they
  wish to adjust. On error the input snapshot is returned unchanged.

SEE ALSO:
  - engine.go: Produces the initial snapshots
  - errors.go: OverAllocationError
*/
package allocation

import "github.com/warp/repayment-engine/finance"

// =============================================================================
// LOAN BALANCE SNAPSHOT
// =============================================================================

// LoanBalanceSnapshot holds one loan's balance before and after an
// allocation, where after.outstanding_X = before.outstanding_X - to_X.
// Invariant: every after bucket is >= 0; a violation is a validation
// error, never a clamp.
type LoanBalanceSnapshot struct {
	Before     LoanBalance
	After      LoanBalance
	Allocation Allocation
}

// NewSnapshot builds a snapshot from a starting balance and an allocation,
// validating every bucket against the outstanding amounts.
func NewSnapshot(before LoanBalance, alloc Allocation) (LoanBalanceSnapshot, error) {
	if err := before.Validate(); err != nil {
		return LoanBalanceSnapshot{}, err
	}
	if alloc.LoanID != before.LoanID {
		return LoanBalanceSnapshot{}, &ValidationError{
			Code:    "loan_mismatch",
			Message: "allocation does not reference the snapshot's loan",
		}
	}

	after := before
	for _, f := range Fields {
		v := alloc.To(f)
		outstanding := before.Outstanding(f)
		if v.IsNegative() || v.GreaterThan(outstanding) {
			return LoanBalanceSnapshot{}, &OverAllocationError{
				LoanID:      before.LoanID,
				Field:       f,
				Requested:   v,
				Outstanding: outstanding,
			}
		}
		after = setOutstanding(after, f, outstanding.Sub(v))
	}

	return LoanBalanceSnapshot{Before: before, After: after, Allocation: alloc}, nil
}

// ApplyManualEdit sets one bucket of the snapshot's allocation and
// recomputes that loan's after-balance. The edit is confined to this one
// snapshot. Fails with OverAllocationError when the value is negative or
// exceeds the bucket's outstanding balance, returning the input unchanged.
func ApplyManualEdit(snap LoanBalanceSnapshot, field Field, value finance.Money) (LoanBalanceSnapshot, error) {
	outstanding := snap.Before.Outstanding(field)
	if value.IsNegative() || value.GreaterThan(outstanding) {
		return snap, &OverAllocationError{
			LoanID:      snap.Before.LoanID,
			Field:       field,
			Requested:   value,
			Outstanding: outstanding,
		}
	}

	edited := snap
	edited.Allocation = snap.Allocation.WithField(field, value)
	edited.After = setOutstanding(snap.After, field, outstanding.Sub(value))
	return edited, nil
}

func setOutstanding(lb LoanBalance, f Field, v finance.Money) LoanBalance {
	switch f {
	case FieldPrincipal:
		lb.OutstandingPrincipal = v
	case FieldInterest:
		lb.OutstandingInterest = v
	default:
		lb.OutstandingFees = v
	}
	return lb
}
