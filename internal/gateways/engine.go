package gateways

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// FeeSchedule is the gateway's own surcharge, passed through to the
// customer on top of the rule-adjusted price.
type FeeSchedule struct {
	FixedCents int
	Percent    float64
}

// AppliedRule traces one rule's effect on the running price.
type AppliedRule struct {
	RuleID     uuid.UUID             `json:"rule_id"`
	Scope      enums.PriceRuleScope  `json:"scope"`
	Action     enums.PriceRuleAction `json:"action"`
	DeltaCents int                   `json:"delta_cents"`
}

// Quote is the computed charge for one gateway.
type Quote struct {
	BasePriceCents  int           `json:"base_price_cents"`
	FinalPriceCents int           `json:"final_price_cents"`
	GatewayFeeCents int           `json:"gateway_fee_cents"`
	AppliedRules    []AppliedRule `json:"applied_rules"`
}

// ComputeQuote applies the rule list in the order given, then the gateway
// fee, all in integer minor units. A PRODUCT rule matches when its scope id
// equals productID, CATEGORY when it equals categoryID, GLOBAL when the
// rule carries no scope id. A rule's fixed amount takes precedence over its
// percent; percent steps round half away from zero. The final price is
// clamped at zero.
func ComputeQuote(basePriceCents int, productID, categoryID *uuid.UUID, rules []models.GatewayPriceRule, fee FeeSchedule) Quote {
	quote := Quote{
		BasePriceCents: basePriceCents,
		AppliedRules:   []AppliedRule{},
	}

	running := basePriceCents
	for _, rule := range rules {
		if !ruleMatches(rule, productID, categoryID) {
			continue
		}
		delta := ruleDelta(running, rule)
		if rule.Action == enums.PriceRuleActionDiscount {
			running -= delta
		} else {
			running += delta
		}
		quote.AppliedRules = append(quote.AppliedRules, AppliedRule{
			RuleID:     rule.ID,
			Scope:      rule.Scope,
			Action:     rule.Action,
			DeltaCents: delta,
		})
	}

	quote.GatewayFeeCents = fee.FixedCents + roundPercent(running, fee.Percent)
	final := running + quote.GatewayFeeCents
	if final < 0 {
		final = 0
	}
	quote.FinalPriceCents = final
	return quote
}

func ruleMatches(rule models.GatewayPriceRule, productID, categoryID *uuid.UUID) bool {
	switch rule.Scope {
	case enums.PriceRuleScopeProduct:
		return rule.ScopeID != nil && productID != nil && *rule.ScopeID == *productID
	case enums.PriceRuleScopeCategory:
		return rule.ScopeID != nil && categoryID != nil && *rule.ScopeID == *categoryID
	case enums.PriceRuleScopeGlobal:
		return rule.ScopeID == nil
	default:
		return false
	}
}

func ruleDelta(runningCents int, rule models.GatewayPriceRule) int {
	if rule.AmountCents != nil {
		return *rule.AmountCents
	}
	if rule.Percent != nil {
		return roundPercent(runningCents, *rule.Percent)
	}
	return 0
}

func roundPercent(amountCents int, percent float64) int {
	if percent == 0 || amountCents == 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(amountCents)).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart())
}
