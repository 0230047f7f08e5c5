/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists loan balances, contract terms, and confirmed repayments. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  loans:               Current balance per (company, loan); upserted
  contracts:           Contract terms, stored as the original terms JSON
  payments:            Append-only record of confirmed repayments
  payment_allocations: Per-loan bucket split of each payment

APPEND-ONLY ENFORCEMENT:
  payments and payment_allocations are never updated or deleted;
  corrections happen upstream in the loan ledger and flow back as
  refreshed balances.

MONEY COLUMNS:
  Amounts are stored as decimal strings (TEXT), never floats, so nothing
  is lost between decimal.Decimal and the database.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/repayments.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - ledger: interface definitions
  - ledger/store: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/contract"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/ledger"
	"github.com/warp/repayment-engine/settlement"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db      *sql.DB
	factory *contract.TermsFactory
	mu      sync.RWMutex
}

var _ ledger.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: contract.NewTermsFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Current loan balances (upserted by the loan-ledger sync)
	CREATE TABLE IF NOT EXISTS loans (
		company_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		outstanding_principal TEXT NOT NULL,
		outstanding_interest TEXT NOT NULL,
		outstanding_fees TEXT NOT NULL,
		maturity_date TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (company_id, loan_id)
	);

	CREATE INDEX IF NOT EXISTS idx_loans_company
		ON loans(company_id);

	-- Contract terms (stored as the original terms JSON, reparsed on load)
	CREATE TABLE IF NOT EXISTS contracts (
		contract_id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT NOT NULL,
		terms_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_company_from
		ON contracts(company_id, effective_from);

	-- Confirmed repayments (append-only)
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		method TEXT NOT NULL,
		deposit_date TEXT NOT NULL,
		settlement_date TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_company
		ON payments(company_id, created_at);

	-- Per-loan bucket split of each payment (append-only)
	CREATE TABLE IF NOT EXISTS payment_allocations (
		payment_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		to_principal TEXT NOT NULL,
		to_interest TEXT NOT NULL,
		to_fees TEXT NOT NULL,
		PRIMARY KEY (payment_id, loan_id),
		FOREIGN KEY (payment_id) REFERENCES payments(id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOAN STORE (ledger.LoanStore interface)
// =============================================================================

// SaveLoan upserts one loan's current balance.
func (s *Store) SaveLoan(ctx context.Context, company ledger.CompanyID, lb allocation.LoanBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO loans
		(company_id, loan_id, outstanding_principal, outstanding_interest, outstanding_fees, maturity_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, loan_id) DO UPDATE SET
			outstanding_principal = excluded.outstanding_principal,
			outstanding_interest = excluded.outstanding_interest,
			outstanding_fees = excluded.outstanding_fees,
			maturity_date = excluded.maturity_date,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		string(company),
		string(lb.LoanID),
		lb.OutstandingPrincipal.Value.String(),
		lb.OutstandingInterest.Value.String(),
		lb.OutstandingFees.Value.String(),
		lb.MaturityDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

// LoansByCompany returns balances ordered by loan ID.
func (s *Store) LoansByCompany(ctx context.Context, company ledger.CompanyID) ([]allocation.LoanBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT loan_id, outstanding_principal, outstanding_interest, outstanding_fees, maturity_date
		FROM loans
		WHERE company_id = ?
		ORDER BY loan_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(company))
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []allocation.LoanBalance
	for rows.Next() {
		lb, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, lb)
	}
	return loans, rows.Err()
}

// GetLoan returns nil when the loan does not exist.
func (s *Store) GetLoan(ctx context.Context, company ledger.CompanyID, id allocation.LoanID) (*allocation.LoanBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT loan_id, outstanding_principal, outstanding_interest, outstanding_fees, maturity_date
		FROM loans
		WHERE company_id = ? AND loan_id = ?
	`

	row := s.db.QueryRowContext(ctx, query, string(company), string(id))
	lb, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (allocation.LoanBalance, error) {
	var id, principal, interest, fees, maturity string
	if err := row.Scan(&id, &principal, &interest, &fees, &maturity); err != nil {
		return allocation.LoanBalance{}, err
	}

	p, err := finance.ParseMoney(principal)
	if err != nil {
		return allocation.LoanBalance{}, fmt.Errorf("corrupt principal for loan %s: %w", id, err)
	}
	i, err := finance.ParseMoney(interest)
	if err != nil {
		return allocation.LoanBalance{}, fmt.Errorf("corrupt interest for loan %s: %w", id, err)
	}
	f, err := finance.ParseMoney(fees)
	if err != nil {
		return allocation.LoanBalance{}, fmt.Errorf("corrupt fees for loan %s: %w", id, err)
	}
	m, err := finance.ParseDate(maturity)
	if err != nil {
		return allocation.LoanBalance{}, fmt.Errorf("corrupt maturity date for loan %s: %w", id, err)
	}

	return allocation.LoanBalance{
		LoanID:               allocation.LoanID(id),
		OutstandingPrincipal: p,
		OutstandingInterest:  i,
		OutstandingFees:      f,
		MaturityDate:         m,
	}, nil
}

// =============================================================================
// CONTRACT STORE (ledger.ContractStore interface)
// =============================================================================

// SaveContract stores the contract's terms JSON keyed by contract ID.
func (s *Store) SaveContract(ctx context.Context, company ledger.CompanyID, terms contract.Terms) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := terms.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize contract terms: %w", err)
	}

	query := `
		INSERT INTO contracts
		(contract_id, company_id, effective_from, effective_to, terms_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (contract_id) DO UPDATE SET
			effective_from = excluded.effective_from,
			effective_to = excluded.effective_to,
			terms_json = excluded.terms_json
	`

	_, err = s.db.ExecContext(ctx, query,
		terms.ContractID,
		string(company),
		terms.Validity.Start.String(),
		terms.Validity.End.String(),
		raw,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

// ContractHistory returns contracts ordered by effective-from date.
func (s *Store) ContractHistory(ctx context.Context, company ledger.CompanyID) ([]contract.Terms, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.contractHistory(ctx, company)
}

func (s *Store) contractHistory(ctx context.Context, company ledger.CompanyID) ([]contract.Terms, error) {
	query := `
		SELECT terms_json FROM contracts
		WHERE company_id = ?
		ORDER BY effective_from ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(company))
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var history []contract.Terms
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		terms, err := s.factory.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt contract terms: %w", err)
		}
		history = append(history, *terms)
	}
	return history, rows.Err()
}

// ActiveContract returns the contract whose validity window covers the date.
func (s *Store) ActiveContract(ctx context.Context, company ledger.CompanyID, at finance.Date) (*contract.Terms, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, err := s.contractHistory(ctx, company)
	if err != nil {
		return nil, err
	}
	for _, terms := range history {
		if terms.Validity.Contains(at) {
			t := terms
			return &t, nil
		}
	}
	return nil, ledger.ErrContractNotFound
}

// =============================================================================
// PAYMENT STORE (ledger.PaymentStore interface)
// =============================================================================

// AppendPayment persists a payment with its allocations atomically.
// Append-only: no update, no delete.
func (s *Store) AppendPayment(ctx context.Context, p ledger.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO payments
		(id, company_id, method, deposit_date, settlement_date, total_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		string(p.CompanyID),
		string(p.Method),
		p.DepositDate.String(),
		p.SettlementDate.String(),
		p.TotalAmount.Value.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ledger.ErrDuplicatePayment
		}
		return fmt.Errorf("failed to append payment: %w", err)
	}

	for _, a := range p.Allocations {
		_, err = sqlTx.ExecContext(ctx, `
			INSERT INTO payment_allocations
			(payment_id, loan_id, to_principal, to_interest, to_fees)
			VALUES (?, ?, ?, ?, ?)`,
			p.ID,
			string(a.LoanID),
			a.ToPrincipal.Value.String(),
			a.ToInterest.Value.String(),
			a.ToFees.Value.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to append payment allocation: %w", err)
		}
	}

	return sqlTx.Commit()
}

// PaymentsByCompany returns payments ordered by creation time.
func (s *Store) PaymentsByCompany(ctx context.Context, company ledger.CompanyID) ([]ledger.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, company_id, method, deposit_date, settlement_date, total_amount, created_at
		FROM payments
		WHERE company_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(company))
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var (
			p                                    ledger.Payment
			companyCol, method                   string
			deposit, settle, total, createdAtRaw string
		)
		if err := rows.Scan(&p.ID, &companyCol, &method, &deposit, &settle, &total, &createdAtRaw); err != nil {
			return nil, err
		}
		p.CompanyID = ledger.CompanyID(companyCol)
		p.Method = settlement.RepaymentMethod(method)
		if p.DepositDate, err = finance.ParseDate(deposit); err != nil {
			return nil, fmt.Errorf("corrupt deposit date for payment %s: %w", p.ID, err)
		}
		if p.SettlementDate, err = finance.ParseDate(settle); err != nil {
			return nil, fmt.Errorf("corrupt settlement date for payment %s: %w", p.ID, err)
		}
		if p.TotalAmount, err = finance.ParseMoney(total); err != nil {
			return nil, fmt.Errorf("corrupt total for payment %s: %w", p.ID, err)
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdAtRaw); err != nil {
			return nil, fmt.Errorf("corrupt created_at for payment %s: %w", p.ID, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range payments {
		allocs, err := s.loadAllocations(ctx, payments[i].ID)
		if err != nil {
			return nil, err
		}
		payments[i].Allocations = allocs
	}
	return payments, nil
}

func (s *Store) loadAllocations(ctx context.Context, paymentID string) ([]allocation.Allocation, error) {
	query := `
		SELECT loan_id, to_principal, to_interest, to_fees
		FROM payment_allocations
		WHERE payment_id = ?
		ORDER BY loan_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment allocations: %w", err)
	}
	defer rows.Close()

	var allocs []allocation.Allocation
	for rows.Next() {
		var id, principal, interest, fees string
		if err := rows.Scan(&id, &principal, &interest, &fees); err != nil {
			return nil, err
		}
		a := allocation.Allocation{LoanID: allocation.LoanID(id)}
		if a.ToPrincipal, err = finance.ParseMoney(principal); err != nil {
			return nil, fmt.Errorf("corrupt allocation for payment %s: %w", paymentID, err)
		}
		if a.ToInterest, err = finance.ParseMoney(interest); err != nil {
			return nil, fmt.Errorf("corrupt allocation for payment %s: %w", paymentID, err)
		}
		if a.ToFees, err = finance.ParseMoney(fees); err != nil {
			return nil, fmt.Errorf("corrupt allocation for payment %s: %w", paymentID, err)
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
