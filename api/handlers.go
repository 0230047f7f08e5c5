/*
handlers.go - HTTP API handlers for the repayment reconciliation engine

PURPOSE:
  Exposes the allocation engine, settlement calculator, and late-fee
  resolver via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Loans:
    GET    /api/companies/{companyID}/loans              List loan balances
    PUT    /api/companies/{companyID}/loans              Upsert a loan balance
    GET    /api/companies/{companyID}/loans/{loanID}     Get one loan

  Contracts:
    GET    /api/companies/{companyID}/contracts          Contract history
    POST   /api/companies/{companyID}/contracts          Register contract terms

  Repayments:
    POST   /api/companies/{companyID}/repayments/propose Compute a proposal
    POST   /api/repayments/edit                          Apply one manual edit
    POST   /api/companies/{companyID}/repayments         Confirm a repayment
    GET    /api/companies/{companyID}/repayments         Payment history

  Settlement:
    GET    /api/companies/{companyID}/settlement-date    Settlement date query

  Late fees:
    GET    /api/companies/{companyID}/fee-schedule       Resolve for one date
    GET    /api/companies/{companyID}/fee-schedule/range Resolve per day

  Projection:
    POST   /api/companies/{companyID}/projection         Forward fee simulation

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (loans, contracts, payments)
  - Engine/Calculator/Projector: Stateless domain logic
  - Metrics: Prometheus counters

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Loan/contract/schedule not found
  - 409: Duplicate payment, ambiguous schedule
  - 422: Over-allocation, reconciliation mismatch
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/contract"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/latefee"
	"github.com/warp/repayment-engine/ledger"
	"github.com/warp/repayment-engine/metrics"
	"github.com/warp/repayment-engine/projection"
	"github.com/warp/repayment-engine/settlement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      ledger.Store
	Engine     *allocation.Engine
	Factory    *contract.TermsFactory
	Calculator *settlement.Calculator
	Projector  *projection.Projector
	Metrics    *metrics.Collector
}

// NewHandler creates a handler over the given store, using a weekday
// business calendar. Pass a holiday-aware calendar via NewHandlerWithCalendar
// when holiday data is available.
func NewHandler(store ledger.Store) *Handler {
	return NewHandlerWithCalendar(store, finance.WeekdayCalendar{})
}

// NewHandlerWithCalendar creates a handler with an injected calendar.
func NewHandlerWithCalendar(store ledger.Store, cal finance.BusinessCalendar) *Handler {
	return &Handler{
		Store:      store,
		Engine:     &allocation.Engine{},
		Factory:    contract.NewTermsFactory(),
		Calculator: settlement.NewCalculator(cal),
		Projector:  projection.NewProjector(),
		Metrics:    metrics.NewCollector(),
	}
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// ListLoans returns all loan balances for a company.
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	loans, err := h.Store.LoansByCompany(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list loans", err)
		return
	}

	dtos := make([]LoanDTO, len(loans))
	for i, lb := range loans {
		dtos[i] = toLoanDTO(lb)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLoan returns a single loan balance.
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))
	loanID := allocation.LoanID(chi.URLParam(r, "loanID"))

	lb, err := h.Store.GetLoan(r.Context(), company, loanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get loan", err)
		return
	}
	if lb == nil {
		writeError(w, http.StatusNotFound, "Loan not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(*lb))
}

// SaveLoan upserts a loan balance. The loan ledger is the source of
// truth; this endpoint is its sync target.
func (h *Handler) SaveLoan(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	var req SaveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.LoanID == "" {
		writeError(w, http.StatusBadRequest, "loan_id is required", nil)
		return
	}

	lb, err := fromLoanDTO(LoanDTO{
		LoanID:               req.LoanID,
		OutstandingPrincipal: req.OutstandingPrincipal,
		OutstandingInterest:  req.OutstandingInterest,
		OutstandingFees:      req.OutstandingFees,
		MaturityDate:         req.MaturityDate,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid maturity_date", err)
		return
	}
	if err := lb.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid loan balance", err)
		return
	}

	if err := h.Store.SaveLoan(r.Context(), company, lb); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save loan", err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(lb))
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns the company's contract history.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	history, err := h.Store.ContractHistory(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]contract.TermsJSON, 0, len(history))
	for _, terms := range history {
		raw, err := terms.ToJSON()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to serialize contract", err)
			return
		}
		var tj contract.TermsJSON
		if err := json.Unmarshal([]byte(raw), &tj); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to serialize contract", err)
			return
		}
		dtos = append(dtos, tj)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateContract registers contract terms from JSON.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	var tj contract.TermsJSON
	if err := json.NewDecoder(r.Body).Decode(&tj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terms, err := h.Factory.FromJSON(tj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract terms", err)
		return
	}

	if err := h.Store.SaveContract(r.Context(), company, *terms); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"contract_id": terms.ContractID})
}

// =============================================================================
// REPAYMENT HANDLERS
// =============================================================================

// ProposeRepayment computes an allocation proposal over the company's
// current loan balances.
func (h *Handler) ProposeRepayment(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))
	started := time.Now()

	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	option, ok := allocation.ParseOption(req.Option)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown payment option", nil)
		return
	}

	loans, err := h.Store.LoansByCompany(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load loans", err)
		return
	}

	in := allocation.ProposalInput{
		Option:            option,
		Product:           h.companyProduct(r, company),
		AccountFeesLoanID: allocation.LoanID(req.AccountFeesLoanID),
		Loans:             loans,
	}
	if req.RequestedAmount != nil {
		m := finance.NewMoney(*req.RequestedAmount)
		in.RequestedAmount = &m
	}
	if req.RequestedToAccountFees != nil {
		m := finance.NewMoney(*req.RequestedToAccountFees)
		in.RequestedToAccountFees = &m
	}

	proposal, err := h.Engine.Propose(in)
	if err != nil {
		h.Metrics.RecordProposalRejected(errorKind(err))
		writeAllocationError(w, err)
		return
	}

	h.Metrics.RecordProposal(string(option), time.Since(started))
	writeJSON(w, http.StatusOK, toProposalDTO(proposal))
}

// EditAllocation applies one manual field edit to a snapshot. Stateless:
// the edited snapshot comes back in the response and the client holds it.
func (h *Handler) EditAllocation(w http.ResponseWriter, r *http.Request) {
	var req EditAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	field, ok := allocation.ParseField(req.Field)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown field", nil)
		return
	}

	before, err := fromLoanDTO(req.Snapshot.Before)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}
	snap, err := allocation.NewSnapshot(before, fromAllocationDTO(req.Snapshot.Allocation))
	if err != nil {
		writeAllocationError(w, err)
		return
	}

	edited, err := allocation.ApplyManualEdit(snap, field, finance.NewMoney(req.Value))
	if err != nil {
		writeAllocationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(edited))
}

// ConfirmRepayment validates, reconciles, and records a repayment, then
// applies the allocations to the stored balances.
func (h *Handler) ConfirmRepayment(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	method, ok := settlement.ParseMethod(req.Method)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown repayment method", nil)
		return
	}
	deposit, err := finance.ParseDate(req.DepositDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deposit_date", err)
		return
	}
	if len(req.Allocations) == 0 {
		writeError(w, http.StatusBadRequest, "At least one allocation is required", nil)
		return
	}

	total := finance.NewMoney(req.TotalAmount)
	allocs := make([]allocation.Allocation, len(req.Allocations))
	snapshots := make([]allocation.LoanBalanceSnapshot, len(req.Allocations))
	seen := make(map[allocation.LoanID]struct{}, len(req.Allocations))

	// Validate every allocation against the current stored balance. One
	// allocation per loan: a repeated loan_id would let each entry pass
	// its bounds check against the same stored balance while only the
	// last snapshot is applied.
	for i, dto := range req.Allocations {
		a := fromAllocationDTO(dto)
		if _, dup := seen[a.LoanID]; dup {
			writeError(w, http.StatusBadRequest, "Duplicate allocation for loan: "+dto.LoanID, nil)
			return
		}
		seen[a.LoanID] = struct{}{}
		lb, err := h.Store.GetLoan(r.Context(), company, a.LoanID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load loan", err)
			return
		}
		if lb == nil {
			writeError(w, http.StatusNotFound, "Loan not found: "+dto.LoanID, nil)
			return
		}
		snap, err := allocation.NewSnapshot(*lb, a)
		if err != nil {
			writeAllocationError(w, err)
			return
		}
		allocs[i] = a
		snapshots[i] = snap
	}

	// Conservation of money: the declared total must equal the sum.
	if err := allocation.Reconcile(total, allocs); err != nil {
		h.Metrics.RecordReconciliationFailure()
		writeAllocationError(w, err)
		return
	}

	cfg, err := h.clearanceConfig(r.Context(), company, deposit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contract", err)
		return
	}
	settleDate := h.Calculator.SettlementDate(method, deposit, cfg)
	h.Metrics.RecordSettlement(string(method))

	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = uuid.NewString()
	}

	payment := ledger.Payment{
		ID:             paymentID,
		CompanyID:      company,
		Method:         method,
		DepositDate:    deposit,
		SettlementDate: settleDate,
		TotalAmount:    total,
		Allocations:    allocs,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.Store.AppendPayment(r.Context(), payment); err != nil {
		if errors.Is(err, ledger.ErrDuplicatePayment) {
			writeError(w, http.StatusConflict, "Payment already recorded", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}

	// Apply the allocations to stored balances.
	for _, snap := range snapshots {
		if err := h.Store.SaveLoan(r.Context(), company, snap.After); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update balances", err)
			return
		}
	}

	h.Metrics.RecordPaymentConfirmed(total.Float64())
	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

// ListRepayments returns the company's confirmed payments.
func (h *Handler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	payments, err := h.Store.PaymentsByCompany(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SETTLEMENT HANDLER
// =============================================================================

// GetSettlementDate answers "when will this repayment settle".
// Query params: method, deposit_date (YYYY-MM-DD).
func (h *Handler) GetSettlementDate(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	method, ok := settlement.ParseMethod(r.URL.Query().Get("method"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown repayment method", nil)
		return
	}
	deposit, err := finance.ParseDate(r.URL.Query().Get("deposit_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deposit_date", err)
		return
	}

	cfg, err := h.clearanceConfig(r.Context(), company, deposit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contract", err)
		return
	}

	settleDate := h.Calculator.SettlementDate(method, deposit, cfg)
	h.Metrics.RecordSettlement(string(method))

	writeJSON(w, http.StatusOK, SettlementDateDTO{
		Method:         string(method),
		DepositDate:    deposit.String(),
		SettlementDate: settleDate.String(),
		ClearanceDays:  cfg.ClearanceDays(method),
	})
}

// =============================================================================
// LATE-FEE HANDLERS
// =============================================================================

// GetFeeSchedule resolves the late-fee schedule for one date.
// Query param: date (YYYY-MM-DD), default today.
func (h *Handler) GetFeeSchedule(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	target := finance.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		if target, err = finance.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	windows, err := h.contractWindows(r, company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}

	window, err := latefee.Resolve(windows, target)
	if err != nil {
		h.Metrics.RecordFeeScheduleLookup(feeLookupOutcome(err))
		writeFeeScheduleError(w, err)
		return
	}

	h.Metrics.RecordFeeScheduleLookup("resolved")
	writeJSON(w, http.StatusOK, toFeeScheduleDTO(window))
}

// GetFeeScheduleRange resolves the schedule for every day in a range.
// Query params: from, to (YYYY-MM-DD, inclusive).
func (h *Handler) GetFeeScheduleRange(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	from, err := finance.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := finance.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	windows, err := h.contractWindows(r, company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}

	resolutions, err := latefee.ResolveRange(windows, from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	dtos := make([]FeeScheduleDayDTO, len(resolutions))
	for i, res := range resolutions {
		dto := FeeScheduleDayDTO{Date: res.Date.String()}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		} else {
			dto.Schedule = toFeeScheduleDTO(res.Window)
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

func toFeeScheduleDTO(w *latefee.ScheduleWindow) *FeeScheduleDTO {
	return &FeeScheduleDTO{
		ContractID:    w.ContractID,
		EffectiveFrom: w.Validity.Start.String(),
		EffectiveTo:   w.Validity.End.String(),
		Bands:         w.Schedule.Entries(),
	}
}

// =============================================================================
// PROJECTION HANDLER
// =============================================================================

// RunProjection simulates late-fee accrual over a date range.
func (h *Handler) RunProjection(w http.ResponseWriter, r *http.Request) {
	company := ledger.CompanyID(chi.URLParam(r, "companyID"))

	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := finance.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := finance.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	payments := make([]projection.ScheduledPayment, len(req.Payments))
	for i, p := range req.Payments {
		date, err := finance.ParseDate(p.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment date", err)
			return
		}
		option, ok := allocation.ParseOption(p.Option)
		if !ok || option == allocation.CustomAmount {
			writeError(w, http.StatusBadRequest, "Unsupported payment option for projection", nil)
			return
		}
		payments[i] = projection.ScheduledPayment{Date: date, Option: option}
	}

	loans, err := h.Store.LoansByCompany(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load loans", err)
		return
	}
	windows, err := h.contractWindows(r, company)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}

	result, err := h.Projector.Run(projection.Input{
		Loans:    loans,
		Windows:  windows,
		Range:    finance.DateRange{Start: from, End: to},
		Payments: payments,
	})
	if err != nil {
		if errors.Is(err, latefee.ErrAmbiguousSchedule) {
			writeError(w, http.StatusConflict, "Overlapping contract windows", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Projection failed", err)
		return
	}

	dto := ProjectionDTO{
		Days:          make([]ProjectionDayDTO, len(result.Days)),
		TotalFees:     result.TotalFees.Float64(),
		TotalPaid:     result.TotalPaid.Float64(),
		FinalBalances: make([]LoanDTO, len(result.FinalBalances)),
	}
	for i, day := range result.Days {
		d := ProjectionDayDTO{
			Date:        day.Date.String(),
			FeesAccrued: day.FeesAccrued.Float64(),
			ScheduleGap: day.ScheduleGap,
		}
		if day.Payment != nil {
			p := toProposalDTO(day.Payment)
			d.Payment = &p
		}
		dto.Days[i] = d
	}
	for i, lb := range result.FinalBalances {
		dto.FinalBalances[i] = toLoanDTO(lb)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// contractWindows collects every contract's late-fee window.
func (h *Handler) contractWindows(r *http.Request, company ledger.CompanyID) ([]latefee.ScheduleWindow, error) {
	history, err := h.Store.ContractHistory(r.Context(), company)
	if err != nil {
		return nil, err
	}
	windows := make([]latefee.ScheduleWindow, len(history))
	for i, terms := range history {
		windows[i] = terms.LateFees
	}
	return windows, nil
}

// companyProduct reads the product from the active contract; defaults to
// a term loan when no contract covers today.
// clearanceConfig returns the clearance rule covering the deposit date.
// Without a covering contract the conventional ACH default applies, so the
// computed settlement date and the days reported for it always agree.
func (h *Handler) clearanceConfig(ctx context.Context, company ledger.CompanyID, deposit finance.Date) (settlement.ClearanceTimelineConfig, error) {
	terms, err := h.Store.ActiveContract(ctx, company, deposit)
	if err != nil {
		if errors.Is(err, ledger.ErrContractNotFound) {
			return settlement.ClearanceTimelineConfig{
				DaysFor: map[settlement.RepaymentMethod]int{
					settlement.MethodReverseDraftACH: settlement.DefaultACHClearanceDays,
				},
			}, nil
		}
		return settlement.ClearanceTimelineConfig{}, err
	}
	return terms.Clearance, nil
}

func (h *Handler) companyProduct(r *http.Request, company ledger.CompanyID) allocation.Product {
	terms, err := h.Store.ActiveContract(r.Context(), company, finance.Today())
	if err != nil || terms == nil {
		return allocation.ProductLoan
	}
	return terms.Product
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeAllocationError maps engine errors onto HTTP statuses.
func writeAllocationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, allocation.ErrOverAllocation):
		writeError(w, http.StatusUnprocessableEntity, "Allocation exceeds outstanding balance", err)
	case errors.Is(err, allocation.ErrReconciliation):
		writeError(w, http.StatusUnprocessableEntity, "Allocations do not sum to the declared total", err)
	case errors.Is(err, allocation.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid repayment request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Allocation failed", err)
	}
}

// writeFeeScheduleError maps resolver errors onto HTTP statuses.
func writeFeeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, latefee.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "No contract covers this date", err)
	case errors.Is(err, latefee.ErrAmbiguousSchedule):
		writeError(w, http.StatusConflict, "Overlapping contract windows", err)
	default:
		writeError(w, http.StatusInternalServerError, "Schedule resolution failed", err)
	}
}

func feeLookupOutcome(err error) string {
	switch {
	case errors.Is(err, latefee.ErrScheduleNotFound):
		return "not_found"
	case errors.Is(err, latefee.ErrAmbiguousSchedule):
		return "ambiguous"
	default:
		return "error"
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, allocation.ErrOverAllocation):
		return "over_allocation"
	case errors.Is(err, allocation.ErrReconciliation):
		return "reconciliation"
	case errors.Is(err, allocation.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
