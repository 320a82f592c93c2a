package gateways

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestComputeQuoteWorkedExample(t *testing.T) {
	// 10000 with one global 10% discount -> 9000; fee 100 + round(9000*2%)
	// = 280; final 9280.
	rules := []models.GatewayPriceRule{{
		ID:       uuid.New(),
		Scope:    enums.PriceRuleScopeGlobal,
		Action:   enums.PriceRuleActionDiscount,
		Percent:  floatPtr(10),
		Priority: 1,
	}}
	quote := ComputeQuote(10000, nil, nil, rules, FeeSchedule{FixedCents: 100, Percent: 2})

	assert.Equal(t, 9280, quote.FinalPriceCents)
	assert.Equal(t, 280, quote.GatewayFeeCents)
	require.Len(t, quote.AppliedRules, 1)
	assert.Equal(t, 1000, quote.AppliedRules[0].DeltaCents)
}

func TestComputeQuoteAmountTakesPrecedenceOverPercent(t *testing.T) {
	rules := []models.GatewayPriceRule{{
		ID:          uuid.New(),
		Scope:       enums.PriceRuleScopeGlobal,
		Action:      enums.PriceRuleActionDiscount,
		AmountCents: intPtr(500),
		Percent:     floatPtr(50),
	}}
	quote := ComputeQuote(10000, nil, nil, rules, FeeSchedule{})

	assert.Equal(t, 9500, quote.FinalPriceCents)
	assert.Equal(t, 500, quote.AppliedRules[0].DeltaCents)
}

func TestComputeQuoteScopeMatching(t *testing.T) {
	productID := uuid.New()
	categoryID := uuid.New()
	otherProduct := uuid.New()

	rules := []models.GatewayPriceRule{
		{
			ID:          uuid.New(),
			Scope:       enums.PriceRuleScopeProduct,
			ScopeID:     &productID,
			Action:      enums.PriceRuleActionDiscount,
			AmountCents: intPtr(100),
		},
		{
			ID:          uuid.New(),
			Scope:       enums.PriceRuleScopeProduct,
			ScopeID:     &otherProduct,
			Action:      enums.PriceRuleActionDiscount,
			AmountCents: intPtr(9999),
		},
		{
			ID:          uuid.New(),
			Scope:       enums.PriceRuleScopeCategory,
			ScopeID:     &categoryID,
			Action:      enums.PriceRuleActionCharge,
			AmountCents: intPtr(50),
		},
		{
			ID:          uuid.New(),
			Scope:       enums.PriceRuleScopeGlobal,
			Action:      enums.PriceRuleActionDiscount,
			AmountCents: intPtr(200),
		},
	}

	quote := ComputeQuote(10000, &productID, &categoryID, rules, FeeSchedule{})
	// -100 (product) +50 (category) -200 (global) = 9750.
	assert.Equal(t, 9750, quote.FinalPriceCents)
	require.Len(t, quote.AppliedRules, 3)

	// Without the category in context, the category rule is skipped.
	quote = ComputeQuote(10000, &productID, nil, rules, FeeSchedule{})
	assert.Equal(t, 9700, quote.FinalPriceCents)
	require.Len(t, quote.AppliedRules, 2)

	// No context at all leaves only the global rule.
	quote = ComputeQuote(10000, nil, nil, rules, FeeSchedule{})
	assert.Equal(t, 9800, quote.FinalPriceCents)
	require.Len(t, quote.AppliedRules, 1)
}

func TestComputeQuotePercentAppliesToRunningPrice(t *testing.T) {
	rules := []models.GatewayPriceRule{
		{
			ID:          uuid.New(),
			Scope:       enums.PriceRuleScopeGlobal,
			Action:      enums.PriceRuleActionDiscount,
			AmountCents: intPtr(2000),
		},
		{
			ID:      uuid.New(),
			Scope:   enums.PriceRuleScopeGlobal,
			Action:  enums.PriceRuleActionCharge,
			Percent: floatPtr(10),
		},
	}
	quote := ComputeQuote(10000, nil, nil, rules, FeeSchedule{})
	// 10000 - 2000 = 8000; +10% of 8000 = 8800.
	assert.Equal(t, 8800, quote.FinalPriceCents)
	assert.Equal(t, 800, quote.AppliedRules[1].DeltaCents)
}

func TestComputeQuoteRoundsHalfAwayFromZero(t *testing.T) {
	rules := []models.GatewayPriceRule{{
		ID:      uuid.New(),
		Scope:   enums.PriceRuleScopeGlobal,
		Action:  enums.PriceRuleActionDiscount,
		Percent: floatPtr(15),
	}}
	// 15% of 30 = 4.5 -> 5.
	quote := ComputeQuote(30, nil, nil, rules, FeeSchedule{})
	assert.Equal(t, 5, quote.AppliedRules[0].DeltaCents)
	assert.Equal(t, 25, quote.FinalPriceCents)
}

func TestComputeQuoteClampsAtZero(t *testing.T) {
	rules := []models.GatewayPriceRule{{
		ID:          uuid.New(),
		Scope:       enums.PriceRuleScopeGlobal,
		Action:      enums.PriceRuleActionDiscount,
		AmountCents: intPtr(20000),
	}}
	quote := ComputeQuote(10000, nil, nil, rules, FeeSchedule{})
	assert.Equal(t, 0, quote.FinalPriceCents)
}

func TestComputeQuoteFeeOnly(t *testing.T) {
	quote := ComputeQuote(5000, nil, nil, nil, FeeSchedule{FixedCents: 30, Percent: 3.6})
	// 30 + round(5000*3.6%) = 30 + 180 = 210.
	assert.Equal(t, 210, quote.GatewayFeeCents)
	assert.Equal(t, 5210, quote.FinalPriceCents)
	assert.Empty(t, quote.AppliedRules)
}
