package contract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/repayment-engine/allocation"
	"github.com/warp/repayment-engine/contract"
	"github.com/warp/repayment-engine/finance"
	"github.com/warp/repayment-engine/settlement"
)

const validTermsJSON = `{
	"contract_id": "c-2025",
	"effective_from": "2025-01-01",
	"effective_to": "2025-12-31",
	"product": "loan",
	"clearance_days": {"reverse_draft_ach": 2, "check": 5},
	"preceding_business_day": true,
	"late_fee_structure": ["1-10,2.5", "11-30,5", "31+,10"]
}`

func TestTermsFactory_Parse(t *testing.T) {
	// GIVEN: A full contract terms document
	// WHEN: Parsing
	// THEN: Every section lands in its typed counterpart

	factory := contract.NewTermsFactory()

	terms, err := factory.Parse(validTermsJSON)
	require.NoError(t, err)

	assert.Equal(t, "c-2025", terms.ContractID)
	assert.Equal(t, allocation.ProductLoan, terms.Product)
	assert.True(t, terms.Validity.Start.Equal(finance.NewDate(2025, time.January, 1)))
	assert.True(t, terms.Validity.End.Equal(finance.NewDate(2025, time.December, 31)))

	assert.Equal(t, 2, terms.Clearance.ClearanceDays(settlement.MethodReverseDraftACH))
	assert.Equal(t, 5, terms.Clearance.ClearanceDays(settlement.MethodCheck))
	assert.True(t, terms.Clearance.UsePrecedingBusinessDay)

	assert.Equal(t, "c-2025", terms.LateFees.ContractID)
	band, ok := terms.LateFees.Schedule.BandFor(15)
	require.True(t, ok)
	assert.Equal(t, "5", band.Fee.String())
}

func TestTermsFactory_ACHDefaultApplied(t *testing.T) {
	// A contract silent on ACH clearance gets the one-business-day default.
	factory := contract.NewTermsFactory()

	terms, err := factory.FromJSON(contract.TermsJSON{
		EffectiveFrom: "2025-01-01",
		EffectiveTo:   "2025-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, settlement.DefaultACHClearanceDays,
		terms.Clearance.ClearanceDays(settlement.MethodReverseDraftACH))
	assert.Equal(t, 0, terms.Clearance.ClearanceDays(settlement.MethodWire))
}

func TestTermsFactory_GeneratesContractID(t *testing.T) {
	factory := contract.NewTermsFactory()

	terms, err := factory.FromJSON(contract.TermsJSON{
		EffectiveFrom: "2025-01-01",
		EffectiveTo:   "2025-12-31",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, terms.ContractID)
}

func TestTermsFactory_Rejections(t *testing.T) {
	factory := contract.NewTermsFactory()

	cases := []struct {
		name string
		tj   contract.TermsJSON
	}{
		{"missing dates", contract.TermsJSON{}},
		{"inverted validity", contract.TermsJSON{
			EffectiveFrom: "2025-12-31", EffectiveTo: "2025-01-01",
		}},
		{"unknown product", contract.TermsJSON{
			EffectiveFrom: "2025-01-01", EffectiveTo: "2025-12-31",
			Product: "mortgage",
		}},
		{"unknown clearance method", contract.TermsJSON{
			EffectiveFrom: "2025-01-01", EffectiveTo: "2025-12-31",
			ClearanceDays: map[string]int{"carrier_pigeon": 3},
		}},
		{"negative clearance days", contract.TermsJSON{
			EffectiveFrom: "2025-01-01", EffectiveTo: "2025-12-31",
			ClearanceDays: map[string]int{"wire": -1},
		}},
		{"malformed fee band", contract.TermsJSON{
			EffectiveFrom: "2025-01-01", EffectiveTo: "2025-12-31",
			LateFeeStructure: []string{"not-a-band"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.FromJSON(tc.tj)
			assert.Error(t, err)
		})
	}
}

func TestTermsFactory_InvalidJSON(t *testing.T) {
	factory := contract.NewTermsFactory()

	_, err := factory.Parse("{not json")
	assert.Error(t, err)
}

func TestTerms_ToJSON_RoundTrip(t *testing.T) {
	// Store and reload: the reparsed terms must behave identically.
	factory := contract.NewTermsFactory()

	original, err := factory.Parse(validTermsJSON)
	require.NoError(t, err)

	raw, err := original.ToJSON()
	require.NoError(t, err)

	reparsed, err := factory.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, original.ContractID, reparsed.ContractID)
	assert.Equal(t, original.Product, reparsed.Product)
	assert.Equal(t, original.Clearance, reparsed.Clearance)
	assert.Equal(t, original.LateFees.Schedule.Entries(), reparsed.LateFees.Schedule.Entries())
	assert.True(t, original.Validity.Start.Equal(reparsed.Validity.Start))
	assert.True(t, original.Validity.End.Equal(reparsed.Validity.End))
}
