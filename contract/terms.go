/*
Package contract converts contract-terms JSON into engine configuration.

PURPOSE:
  Contract terms live as JSON in contract configuration: per-method
  clearance days, the preceding-business-day flag, the validity date
  range, and the late-fee structure table. This package parses that JSON
  once, at load time, into the typed values the settlement calculator and
  late-fee resolver consume. Parse failures surface immediately instead of
  being discovered lazily per lookup.

JSON SCHEMA:
  {
    "contract_id": "ct-2026-001",
    "effective_from": "2026-01-01",
    "effective_to": "2026-12-31",
    "product": "loan",
    "clearance_days": {"wire": 0, "check": 3},
    "preceding_business_day": false,
    "late_fee_structure": ["1-10,2.5", "11-30,5", "31+,10"]
  }

DEFAULTS:
  - reverse_draft_ach absent from clearance_days: one business day
    (settlement.DefaultACHClearanceDays)
  - contract_id absent: a fresh UUID
  - product absent: "loan"

SEE ALSO:
  - settlement: ClearanceTimelineConfig
  - latefee: ScheduleWindow
*/
package contract

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/latefee"
	"github.com/warp/repayment-engine/settlement"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TermsJSON is the JSON representation of one contract's terms.
type TermsJSON struct {
	ContractID           string         `json:"contract_id,omitempty"`
	EffectiveFrom        string         `json:"effective_from"`
	EffectiveTo          string         `json:"effective_to"`
	Product              string         `json:"product,omitempty"`
	ClearanceDays        map[string]int `json:"clearance_days,omitempty"`
	PrecedingBusinessDay bool           `json:"preceding_business_day,omitempty"`
	LateFeeStructure     []string       `json:"late_fee_structure,omitempty"`
}

// =============================================================================
// TERMS - Typed contract configuration
// =============================================================================

// Terms is a contract's parsed configuration: the settlement rule and the
// late-fee window for its validity range.
type Terms struct {
	ContractID string
	Product    allocation.Product
	Validity   finance.DateRange
	Clearance  settlement.ClearanceTimelineConfig
	LateFees   latefee.ScheduleWindow
}

// =============================================================================
// TERMS FACTORY
// =============================================================================

// TermsFactory converts contract JSON into Terms.
type TermsFactory struct{}

func NewTermsFactory() *TermsFactory {
	return &TermsFactory{}
}

// Parse parses a JSON string into Terms.
func (f *TermsFactory) Parse(jsonStr string) (*Terms, error) {
	var tj TermsJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("failed to parse contract terms JSON: %w", err)
	}
	return f.FromJSON(tj)
}

// FromJSON validates and converts the decoded schema.
func (f *TermsFactory) FromJSON(tj TermsJSON) (*Terms, error) {
	from, err := finance.ParseDate(tj.EffectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid effective_from %q: %w", tj.EffectiveFrom, err)
	}
	to, err := finance.ParseDate(tj.EffectiveTo)
	if err != nil {
		return nil, fmt.Errorf("invalid effective_to %q: %w", tj.EffectiveTo, err)
	}
	validity := finance.DateRange{Start: from, End: to}
	if !validity.IsValid() {
		return nil, fmt.Errorf("contract effective_to %s precedes effective_from %s", to, from)
	}

	contractID := tj.ContractID
	if contractID == "" {
		contractID = uuid.NewString()
	}

	product, err := parseProduct(tj.Product)
	if err != nil {
		return nil, err
	}

	clearance, err := parseClearance(tj.ClearanceDays)
	if err != nil {
		return nil, err
	}
	clearance.UsePrecedingBusinessDay = tj.PrecedingBusinessDay

	window, err := latefee.NewScheduleWindow(contractID, from, to, tj.LateFeeStructure)
	if err != nil {
		return nil, err
	}

	return &Terms{
		ContractID: contractID,
		Product:    product,
		Validity:   validity,
		Clearance:  clearance,
		LateFees:   window,
	}, nil
}

// ToJSON re-serializes the terms for storage.
func (t *Terms) ToJSON() (string, error) {
	tj := TermsJSON{
		ContractID:           t.ContractID,
		EffectiveFrom:        t.Validity.Start.String(),
		EffectiveTo:          t.Validity.End.String(),
		Product:              string(t.Product),
		ClearanceDays:        map[string]int{},
		PrecedingBusinessDay: t.Clearance.UsePrecedingBusinessDay,
		LateFeeStructure:     t.LateFees.Schedule.Entries(),
	}
	for m, d := range t.Clearance.DaysFor {
		tj.ClearanceDays[string(m)] = d
	}
	raw, err := json.Marshal(tj)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func parseProduct(s string) (allocation.Product, error) {
	switch s {
	case "", string(allocation.ProductLoan):
		return allocation.ProductLoan, nil
	case string(allocation.ProductLineOfCredit):
		return allocation.ProductLineOfCredit, nil
	default:
		return "", fmt.Errorf("unknown product %q", s)
	}
}

func parseClearance(days map[string]int) (settlement.ClearanceTimelineConfig, error) {
	cfg := settlement.ClearanceTimelineConfig{
		DaysFor: map[settlement.RepaymentMethod]int{
			settlement.MethodReverseDraftACH: settlement.DefaultACHClearanceDays,
		},
	}
	for key, d := range days {
		method, ok := settlement.ParseMethod(key)
		if !ok {
			return settlement.ClearanceTimelineConfig{}, fmt.Errorf("unknown repayment method %q in clearance_days", key)
		}
		if d < 0 {
			return settlement.ClearanceTimelineConfig{}, fmt.Errorf("negative clearance days for %q", key)
		}
		cfg.DaysFor[method] = d
	}
	return cfg, nil
}
