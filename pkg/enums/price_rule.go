package enums

import "fmt"

// PriceRuleScope decides which carts a gateway price rule can touch.
type PriceRuleScope string

const (
	PriceRuleScopeGlobal   PriceRuleScope = "global"
	PriceRuleScopeCategory PriceRuleScope = "category"
	PriceRuleScopeProduct  PriceRuleScope = "product"
)

var validPriceRuleScopes = []PriceRuleScope{
	PriceRuleScopeGlobal,
	PriceRuleScopeCategory,
	PriceRuleScopeProduct,
}

// IsValid reports whether the value is a known PriceRuleScope.
func (s PriceRuleScope) IsValid() bool {
	for _, candidate := range validPriceRuleScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePriceRuleScope converts raw input into a PriceRuleScope.
func ParsePriceRuleScope(value string) (PriceRuleScope, error) {
	for _, candidate := range validPriceRuleScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price rule scope %q", value)
}

// PriceRuleAction decides whether a rule lowers or raises the running price.
type PriceRuleAction string

const (
	PriceRuleActionDiscount PriceRuleAction = "discount"
	PriceRuleActionCharge   PriceRuleAction = "charge"
)

var validPriceRuleActions = []PriceRuleAction{
	PriceRuleActionDiscount,
	PriceRuleActionCharge,
}

// IsValid reports whether the value is a known PriceRuleAction.
func (a PriceRuleAction) IsValid() bool {
	for _, candidate := range validPriceRuleActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParsePriceRuleAction converts raw input into a PriceRuleAction.
func ParsePriceRuleAction(value string) (PriceRuleAction, error) {
	for _, candidate := range validPriceRuleActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price rule action %q", value)
}
