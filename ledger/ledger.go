/*
Package ledger defines the persistence interfaces the engines consume.

PURPOSE:
  The calculation packages (allocation, settlement, latefee, projection)
  are pure; everything stateful lives behind these interfaces. The
  surrounding application supplies loan balances, contract history, and a
  sink for confirmed repayments.

INTERFACES:
  LoanStore:     Current loan balances per company (upserted by the
                 loan-ledger sync, read by everything else)
  ContractStore: A company's ordered contract history
  PaymentStore:  Append-only record of confirmed repayments

PAYMENTS ARE APPEND-ONLY:
  A persisted payment is never updated or deleted. Corrections happen
  upstream in the loan ledger and flow back as refreshed balances.

IMPLEMENTATIONS:
  - ledger/store: in-memory (tests, dev)
  - store/sqlite: SQLite-backed

SEE ALSO:
  - api: the HTTP surface composing stores and engines
*/
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/contract"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/settlement"
)

// =============================================================================
// IDENTIFIERS AND RECORDS
// =============================================================================

type CompanyID string

// Payment is a confirmed, reconciled repayment as persisted.
type Payment struct {
	ID             string
	CompanyID      CompanyID
	Method         settlement.RepaymentMethod
	DepositDate    finance.Date
	SettlementDate finance.Date
	TotalAmount    finance.Money
	Allocations    []allocation.Allocation
	CreatedAt      time.Time
}

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrContractNotFound = errors.New("no contract covers date")
	ErrDuplicatePayment = errors.New("payment already persisted")
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// LoanStore holds current loan balances per company. SaveLoan upserts:
// balances are refreshed wholesale by the loan-ledger sync.
type LoanStore interface {
	SaveLoan(ctx context.Context, company CompanyID, lb allocation.LoanBalance) error

	// LoansByCompany returns balances ordered by loan ID.
	LoansByCompany(ctx context.Context, company CompanyID) ([]allocation.LoanBalance, error)

	// GetLoan returns nil when the loan does not exist.
	GetLoan(ctx context.Context, company CompanyID, id allocation.LoanID) (*allocation.LoanBalance, error)
}

// ContractStore holds each company's contract history.
type ContractStore interface {
	// SaveContract upserts by contract ID: saving the same contract
	// again replaces its terms rather than adding a second window.
	SaveContract(ctx context.Context, company CompanyID, terms contract.Terms) error

	// ContractHistory returns contracts ordered by effective-from date.
	ContractHistory(ctx context.Context, company CompanyID) ([]contract.Terms, error)

	// ActiveContract returns the contract whose validity covers the date,
	// or ErrContractNotFound.
	ActiveContract(ctx context.Context, company CompanyID, at finance.Date) (*contract.Terms, error)
}

// PaymentStore records confirmed repayments. Append-only.
type PaymentStore interface {
	AppendPayment(ctx context.Context, p Payment) error

	// PaymentsByCompany returns payments ordered by creation time.
	PaymentsByCompany(ctx context.Context, company CompanyID) ([]Payment, error)
}

// Store is the full persistence surface the API composes.
type Store interface {
	LoanStore
	ContractStore
	PaymentStore
}
