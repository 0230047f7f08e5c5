/*
errors.go - Centralized error types for the allocation engine

PURPOSE:
  All allocation error types in one place. Every condition here indicates
  either a data-integrity problem upstream (loan balances out of sync) or an
  operator error, so the engine surfaces them to the immediate caller and
  never retries or substitutes a default.

ERROR CATEGORIES:
  1. Validation errors - structurally invalid option/amount combinations
  2. Over-allocation errors - a bucket edit exceeding its outstanding balance
  3. Reconciliation errors - allocation sum diverging from the declared total

USAGE:
  Callers can branch on the sentinel:

    if errors.Is(err, allocation.ErrOverAllocation) {
        // surface to the operator, leave state unchanged
    }

SEE ALSO:
  - engine.go: Raises these errors
  - snapshot.go: Raises OverAllocationError on manual edits
*/
package allocation

import (
	"errors"
	"fmt"

	"github.com/warp/repayment-engine/finance"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when the caller supplied an amount/option
	// combination that is structurally invalid.
	ErrValidation = errors.New("invalid repayment input")

	// ErrOverAllocation is returned when an allocation would exceed a
	// bucket's outstanding balance or go negative.
	ErrOverAllocation = errors.New("allocation exceeds outstanding balance")

	// ErrReconciliation is returned when the sum of per-loan allocation
	// amounts does not equal the declared total within the two-decimal
	// currency tolerance.
	ErrReconciliation = errors.New("allocation total mismatch")

	// ErrLoanNotFound is returned when an allocation references a loan
	// absent from the supplied balances.
	ErrLoanNotFound = errors.New("loan not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a structurally invalid request.
type ValidationError struct {
	Code    string // e.g. "requested_amount_mismatch", "missing_requested_amount"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// OverAllocationError describes an edit that would overpay or underflow a
// bucket on one loan.
type OverAllocationError struct {
	LoanID      LoanID
	Field       Field
	Requested   finance.Money
	Outstanding finance.Money
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("over-allocation on loan %s %s: requested %s, outstanding %s",
		e.LoanID, e.Field, e.Requested, e.Outstanding)
}

func (e *OverAllocationError) Unwrap() error { return ErrOverAllocation }

// ReconciliationError describes a conservation-of-money violation between
// a declared total and the allocations that are supposed to compose it.
type ReconciliationError struct {
	Declared  finance.Money
	Allocated finance.Money
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: declared total %s, allocations sum to %s",
		e.Declared, e.Allocated)
}

func (e *ReconciliationError) Unwrap() error { return ErrReconciliation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrOverAllocation) ||
		errors.Is(err, ErrReconciliation) ||
		errors.Is(err, ErrLoanNotFound)
}
