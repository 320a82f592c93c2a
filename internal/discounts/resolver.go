package discounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
)

// Resolver decides whether a promotional code may be applied to a set of
// products. Liquidation discounts take absolute priority; any currently
// active promotion blocks every code. The coupon "combinable" and promotion
// "exclusive_with_codes" flags are stored and surfaced but deliberately do
// not alter this rule; product owners have been flagged.
type Resolver struct {
	repo Repository
}

// NewResolver builds the exclusivity resolver.
func NewResolver(repo Repository) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &Resolver{repo: repo}, nil
}

// ResolveExclusivity checks the products for liquidation first, then for
// active promotions within their validity window at the current instant.
func (r *Resolver) ResolveExclusivity(ctx context.Context, productIDs []uuid.UUID) (*ExclusivityResult, error) {
	if len(productIDs) == 0 {
		return &ExclusivityResult{}, nil
	}

	products, err := r.repo.FindProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	var liquidated []string
	promotionIDs := make([]uuid.UUID, 0, len(products))
	seen := make(map[uuid.UUID]struct{})
	for _, product := range products {
		if product.InLiquidation && product.LiquidationPercent > 0 {
			liquidated = append(liquidated, product.Name)
		}
		if product.AppliesPromotion && product.PromotionID != nil {
			if _, ok := seen[*product.PromotionID]; !ok {
				seen[*product.PromotionID] = struct{}{}
				promotionIDs = append(promotionIDs, *product.PromotionID)
			}
		}
	}

	if len(liquidated) > 0 {
		return &ExclusivityResult{
			Blocked:             true,
			Reason:              "liquidation products cannot be combined with promotional codes: " + strings.Join(liquidated, ", "),
			BlockingLiquidation: liquidated,
		}, nil
	}

	if len(promotionIDs) > 0 {
		active, err := r.repo.FindActivePromotions(ctx, promotionIDs, time.Now().UTC())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotions")
		}
		if len(active) > 0 {
			first := active[0]
			return &ExclusivityResult{
				Blocked: true,
				Reason:  fmt.Sprintf("active promotion %q cannot be combined with promotional codes", first.Name),
				BlockingPromotion: &PromotionRef{
					ID:   first.ID,
					Name: first.Name,
				},
			}, nil
		}
	}

	return &ExclusivityResult{}, nil
}
