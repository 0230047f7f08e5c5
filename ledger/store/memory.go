// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/contract"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	loans     map[ledger.CompanyID]map[allocation.LoanID]allocation.LoanBalance
	contracts map[ledger.CompanyID][]contract.Terms
	payments  map[ledger.CompanyID][]ledger.Payment
	paymentID map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		loans:     make(map[ledger.CompanyID]map[allocation.LoanID]allocation.LoanBalance),
		contracts: make(map[ledger.CompanyID][]contract.Terms),
		payments:  make(map[ledger.CompanyID][]ledger.Payment),
		paymentID: make(map[string]bool),
	}
}

var _ ledger.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// LoanStore
// -----------------------------------------------------------------------------

func (m *Memory) SaveLoan(_ context.Context, company ledger.CompanyID, lb allocation.LoanBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loans[company] == nil {
		m.loans[company] = make(map[allocation.LoanID]allocation.LoanBalance)
	}
	m.loans[company][lb.LoanID] = lb
	return nil
}

func (m *Memory) LoansByCompany(_ context.Context, company ledger.CompanyID) ([]allocation.LoanBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loans := make([]allocation.LoanBalance, 0, len(m.loans[company]))
	for _, lb := range m.loans[company] {
		loans = append(loans, lb)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].LoanID < loans[j].LoanID })
	return loans, nil
}

func (m *Memory) GetLoan(_ context.Context, company ledger.CompanyID, id allocation.LoanID) (*allocation.LoanBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lb, ok := m.loans[company][id]
	if !ok {
		return nil, nil
	}
	return &lb, nil
}

// -----------------------------------------------------------------------------
// ContractStore
// -----------------------------------------------------------------------------

func (m *Memory) SaveContract(_ context.Context, company ledger.CompanyID, terms contract.Terms) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	contracts := m.contracts[company]
	replaced := false
	for i, existing := range contracts {
		if existing.ContractID == terms.ContractID {
			contracts[i] = terms
			replaced = true
			break
		}
	}
	if !replaced {
		contracts = append(contracts, terms)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Validity.Start.Before(contracts[j].Validity.Start)
	})
	m.contracts[company] = contracts
	return nil
}

func (m *Memory) ContractHistory(_ context.Context, company ledger.CompanyID) ([]contract.Terms, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]contract.Terms, len(m.contracts[company]))
	copy(history, m.contracts[company])
	return history, nil
}

func (m *Memory) ActiveContract(_ context.Context, company ledger.CompanyID, at finance.Date) (*contract.Terms, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, terms := range m.contracts[company] {
		if terms.Validity.Contains(at) {
			t := terms
			return &t, nil
		}
	}
	return nil, ledger.ErrContractNotFound
}

// -----------------------------------------------------------------------------
// PaymentStore
// -----------------------------------------------------------------------------

func (m *Memory) AppendPayment(_ context.Context, p ledger.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paymentID[p.ID] {
		return ledger.ErrDuplicatePayment
	}
	m.paymentID[p.ID] = true
	m.payments[p.CompanyID] = append(m.payments[p.CompanyID], p)
	return nil
}

func (m *Memory) PaymentsByCompany(_ context.Context, company ledger.CompanyID) ([]ledger.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payments := make([]ledger.Payment, len(m.payments[company]))
	copy(payments, m.payments[company])
	return payments, nil
}
