/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY ENCODING:
  Amounts cross the wire as JSON numbers (float64). That is acceptable at
  the edge because everything is re-parsed into decimals with 2dp rounding
  before any arithmetic happens; internal state never holds floats.

SEE ALSO:
  - handlers.go: Uses these types
  - contract/terms.go: TermsJSON type reused verbatim for contract bodies
*/
package api

import (
	"time"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LoanDTO represents one loan's outstanding balances.
type LoanDTO struct {
	LoanID               string  `json:"loan_id"`
	OutstandingPrincipal float64 `json:"outstanding_principal"`
	OutstandingInterest  float64 `json:"outstanding_interest"`
	OutstandingFees      float64 `json:"outstanding_fees"`
	MaturityDate         string  `json:"maturity_date"`
	TotalOutstanding     float64 `json:"total_outstanding"`
	MinimumDue           float64 `json:"minimum_due"`
}

// SaveLoanRequest upserts one loan balance from the loan-ledger sync.
type SaveLoanRequest struct {
	LoanID               string  `json:"loan_id"`
	OutstandingPrincipal float64 `json:"outstanding_principal"`
	OutstandingInterest  float64 `json:"outstanding_interest"`
	OutstandingFees      float64 `json:"outstanding_fees"`
	MaturityDate         string  `json:"maturity_date"`
}

// AllocationDTO is the per-loan split of a repayment.
type AllocationDTO struct {
	LoanID      string  `json:"loan_id"`
	ToPrincipal float64 `json:"to_principal"`
	ToInterest  float64 `json:"to_interest"`
	ToFees      float64 `json:"to_fees"`
	Amount      float64 `json:"amount"`
}

// SnapshotDTO carries a loan's balances before and after an allocation.
type SnapshotDTO struct {
	Before     LoanDTO       `json:"before"`
	After      LoanDTO       `json:"after"`
	Allocation AllocationDTO `json:"allocation"`
}

// ProposeRequest asks the engine for an allocation proposal.
type ProposeRequest struct {
	Option                 string   `json:"option"`
	RequestedAmount        *float64 `json:"requested_amount,omitempty"`
	RequestedToAccountFees *float64 `json:"requested_to_account_fees,omitempty"`
	AccountFeesLoanID      string   `json:"account_fees_loan_id,omitempty"`
}

// ProposalDTO is the engine's answer.
type ProposalDTO struct {
	Option      string          `json:"option"`
	TotalAmount float64         `json:"total_amount"`
	Allocations []AllocationDTO `json:"allocations"`
	Snapshots   []SnapshotDTO   `json:"snapshots"`
}

// EditAllocationRequest applies one manual field edit to a snapshot.
// Stateless: the client sends the current snapshot back with the edit.
type EditAllocationRequest struct {
	Snapshot SnapshotDTO `json:"snapshot"`
	Field    string      `json:"field"`
	Value    float64     `json:"value"`
}

// ConfirmRequest records a reconciled repayment.
type ConfirmRequest struct {
	PaymentID   string          `json:"payment_id,omitempty"`
	Method      string          `json:"method"`
	DepositDate string          `json:"deposit_date"`
	TotalAmount float64         `json:"total_amount"`
	Allocations []AllocationDTO `json:"allocations"`
}

// PaymentDTO is a confirmed repayment.
type PaymentDTO struct {
	ID             string          `json:"id"`
	Method         string          `json:"method"`
	DepositDate    string          `json:"deposit_date"`
	SettlementDate string          `json:"settlement_date"`
	TotalAmount    float64         `json:"total_amount"`
	Allocations    []AllocationDTO `json:"allocations"`
	CreatedAt      string          `json:"created_at"`
}

// SettlementDateDTO is the answer to a settlement-date query.
type SettlementDateDTO struct {
	Method         string `json:"method"`
	DepositDate    string `json:"deposit_date"`
	SettlementDate string `json:"settlement_date"`
	ClearanceDays  int    `json:"clearance_days"`
}

// FeeScheduleDTO is the resolved late-fee schedule for a date.
type FeeScheduleDTO struct {
	ContractID    string   `json:"contract_id"`
	EffectiveFrom string   `json:"effective_from"`
	EffectiveTo   string   `json:"effective_to"`
	Bands         []string `json:"bands"`
}

// FeeScheduleDayDTO is one day of a range resolution.
type FeeScheduleDayDTO struct {
	Date     string          `json:"date"`
	Schedule *FeeScheduleDTO `json:"schedule,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ProjectionRequest asks for a forward fee simulation.
type ProjectionRequest struct {
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Payments []ScheduledPaymentRequest `json:"payments,omitempty"`
}

// ScheduledPaymentRequest is one simulated repayment inside a projection.
type ScheduledPaymentRequest struct {
	Date   string `json:"date"`
	Option string `json:"option"`
}

// ProjectionDayDTO is one simulated day.
type ProjectionDayDTO struct {
	Date        string       `json:"date"`
	FeesAccrued float64      `json:"fees_accrued"`
	ScheduleGap bool         `json:"schedule_gap,omitempty"`
	Payment     *ProposalDTO `json:"payment,omitempty"`
}

// ProjectionDTO is the full simulation outcome.
type ProjectionDTO struct {
	Days          []ProjectionDayDTO `json:"days"`
	TotalFees     float64            `json:"total_fees"`
	TotalPaid     float64            `json:"total_paid"`
	FinalBalances []LoanDTO          `json:"final_balances"`
}

// =============================================================================
// DOMAIN <-> DTO CONVERSIONS
// =============================================================================

func toLoanDTO(lb allocation.LoanBalance) LoanDTO {
	return LoanDTO{
		LoanID:               string(lb.LoanID),
		OutstandingPrincipal: lb.OutstandingPrincipal.Float64(),
		OutstandingInterest:  lb.OutstandingInterest.Float64(),
		OutstandingFees:      lb.OutstandingFees.Float64(),
		MaturityDate:         lb.MaturityDate.String(),
		TotalOutstanding:     lb.Total().Float64(),
		MinimumDue:           lb.MinimumDue().Float64(),
	}
}

func fromLoanDTO(dto LoanDTO) (allocation.LoanBalance, error) {
	maturity, err := finance.ParseDate(dto.MaturityDate)
	if err != nil {
		return allocation.LoanBalance{}, err
	}
	return allocation.LoanBalance{
		LoanID:               allocation.LoanID(dto.LoanID),
		OutstandingPrincipal: finance.NewMoney(dto.OutstandingPrincipal),
		OutstandingInterest:  finance.NewMoney(dto.OutstandingInterest),
		OutstandingFees:      finance.NewMoney(dto.OutstandingFees),
		MaturityDate:         maturity,
	}, nil
}

func toAllocationDTO(a allocation.Allocation) AllocationDTO {
	return AllocationDTO{
		LoanID:      string(a.LoanID),
		ToPrincipal: a.ToPrincipal.Float64(),
		ToInterest:  a.ToInterest.Float64(),
		ToFees:      a.ToFees.Float64(),
		Amount:      a.Amount().Float64(),
	}
}

func fromAllocationDTO(dto AllocationDTO) allocation.Allocation {
	return allocation.Allocation{
		LoanID:      allocation.LoanID(dto.LoanID),
		ToPrincipal: finance.NewMoney(dto.ToPrincipal),
		ToInterest:  finance.NewMoney(dto.ToInterest),
		ToFees:      finance.NewMoney(dto.ToFees),
	}
}

func toSnapshotDTO(s allocation.LoanBalanceSnapshot) SnapshotDTO {
	return SnapshotDTO{
		Before:     toLoanDTO(s.Before),
		After:      toLoanDTO(s.After),
		Allocation: toAllocationDTO(s.Allocation),
	}
}

func toProposalDTO(p *allocation.Proposal) ProposalDTO {
	dto := ProposalDTO{
		Option:      string(p.Option),
		TotalAmount: p.TotalAmount.Float64(),
		Allocations: make([]AllocationDTO, len(p.Allocations)),
		Snapshots:   make([]SnapshotDTO, len(p.Snapshots)),
	}
	for i, a := range p.Allocations {
		dto.Allocations[i] = toAllocationDTO(a)
	}
	for i, s := range p.Snapshots {
		dto.Snapshots[i] = toSnapshotDTO(s)
	}
	return dto
}

func toPaymentDTO(p ledger.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:             p.ID,
		Method:         string(p.Method),
		DepositDate:    p.DepositDate.String(),
		SettlementDate: p.SettlementDate.String(),
		TotalAmount:    p.TotalAmount.Float64(),
		Allocations:    make([]AllocationDTO, len(p.Allocations)),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
	for i, a := range p.Allocations {
		dto.Allocations[i] = toAllocationDTO(a)
	}
	return dto
}
