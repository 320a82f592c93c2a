package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
)

type stubDiscountsRepo struct {
	products         []models.Product
	promotions       []models.Promotion
	code             *models.PromotionalCode
	incrementRows    int64
	incrementCalls   int
	redemptionsCount int64
	countFn          func() (int64, error)
	redemption       *models.CouponRedemption
	promotionQueryAt time.Time
}

func (s *stubDiscountsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDiscountsRepo) FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubDiscountsRepo) FindActivePromotions(ctx context.Context, promotionIDs []uuid.UUID, at time.Time) ([]models.Promotion, error) {
	s.promotionQueryAt = at
	active := make([]models.Promotion, 0, len(s.promotions))
	for _, promotion := range s.promotions {
		inWindow := !at.Before(promotion.StartsAt) && !at.After(promotion.EndsAt)
		if promotion.IsActive && promotion.DisabledAt == nil && inWindow {
			for _, id := range promotionIDs {
				if id == promotion.ID {
					active = append(active, promotion)
					break
				}
			}
		}
	}
	return active, nil
}

func (s *stubDiscountsRepo) FindCodeByValue(ctx context.Context, code string) (*models.PromotionalCode, error) {
	if s.code == nil || s.code.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.code
	return &copied, nil
}

func (s *stubDiscountsRepo) IncrementCodeUsage(ctx context.Context, codeID uuid.UUID) (int64, error) {
	s.incrementCalls++
	return s.incrementRows, nil
}

func (s *stubDiscountsRepo) CountRedemptions(ctx context.Context, codeID, userID uuid.UUID) (int64, error) {
	if s.countFn != nil {
		return s.countFn()
	}
	return s.redemptionsCount, nil
}

func (s *stubDiscountsRepo) CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	s.redemption = redemption
	return nil
}

func activePromotion(name string) models.Promotion {
	return models.Promotion{
		ID:       uuid.New(),
		Name:     name,
		StartsAt: time.Now().UTC().Add(-24 * time.Hour),
		EndsAt:   time.Now().UTC().Add(24 * time.Hour),
		IsActive: true,
	}
}

func TestResolveExclusivityLiquidationWins(t *testing.T) {
	promotion := activePromotion("Summer Sale")
	productID := uuid.New()
	repo := &stubDiscountsRepo{
		products: []models.Product{{
			ID:                 productID,
			Name:               "Clearance Jacket",
			InLiquidation:      true,
			LiquidationPercent: 20,
			AppliesPromotion:   true,
			PromotionID:        &promotion.ID,
		}},
		promotions: []models.Promotion{promotion},
	}
	resolver, err := NewResolver(repo)
	if err != nil {
		t.Fatalf("resolver constructor failed: %v", err)
	}

	result, err := resolver.ResolveExclusivity(context.Background(), []uuid.UUID{productID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !result.Blocked {
		t.Fatal("expected block")
	}
	// Liquidation outranks the product's active promotion.
	if result.BlockingPromotion != nil {
		t.Fatal("liquidation cause expected, not promotion")
	}
	if len(result.BlockingLiquidation) != 1 || result.BlockingLiquidation[0] != "Clearance Jacket" {
		t.Fatalf("unexpected liquidation names %v", result.BlockingLiquidation)
	}
}

func TestResolveExclusivityCollectsAllLiquidationNames(t *testing.T) {
	repo := &stubDiscountsRepo{
		products: []models.Product{
			{ID: uuid.New(), Name: "Jacket", InLiquidation: true, LiquidationPercent: 10},
			{ID: uuid.New(), Name: "Scarf", InLiquidation: true, LiquidationPercent: 30},
			{ID: uuid.New(), Name: "Boots"},
		},
	}
	resolver, _ := NewResolver(repo)

	result, err := resolver.ResolveExclusivity(context.Background(), []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.BlockingLiquidation) != 2 {
		t.Fatalf("expected both liquidation names got %v", result.BlockingLiquidation)
	}
}

func TestResolveExclusivityActivePromotionBlocks(t *testing.T) {
	promotion := activePromotion("Spring Promo")
	productID := uuid.New()
	repo := &stubDiscountsRepo{
		products: []models.Product{{
			ID:               productID,
			Name:             "Linen Dress",
			AppliesPromotion: true,
			PromotionID:      &promotion.ID,
		}},
		promotions: []models.Promotion{promotion},
	}
	resolver, _ := NewResolver(repo)

	result, err := resolver.ResolveExclusivity(context.Background(), []uuid.UUID{productID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !result.Blocked {
		t.Fatal("expected block")
	}
	if result.BlockingPromotion == nil || result.BlockingPromotion.ID != promotion.ID {
		t.Fatalf("expected promotion %s as cause", promotion.Name)
	}
}

func TestResolveExclusivityExpiredPromotionDoesNotBlock(t *testing.T) {
	promotion := activePromotion("Old Promo")
	promotion.EndsAt = time.Now().UTC().Add(-time.Hour)
	productID := uuid.New()
	repo := &stubDiscountsRepo{
		products: []models.Product{{
			ID:               productID,
			Name:             "Wool Coat",
			AppliesPromotion: true,
			PromotionID:      &promotion.ID,
		}},
		promotions: []models.Promotion{promotion},
	}
	resolver, _ := NewResolver(repo)

	result, err := resolver.ResolveExclusivity(context.Background(), []uuid.UUID{productID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Blocked {
		t.Fatalf("expected no block, got %+v", result)
	}
}

func TestResolveExclusivityCleanProducts(t *testing.T) {
	repo := &stubDiscountsRepo{
		products: []models.Product{{ID: uuid.New(), Name: "Plain Tee"}},
	}
	resolver, _ := NewResolver(repo)

	result, err := resolver.ResolveExclusivity(context.Background(), []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Blocked {
		t.Fatalf("expected no block, got %+v", result)
	}
	if result.BlockingPromotion != nil || len(result.BlockingLiquidation) != 0 {
		t.Fatal("no causes expected")
	}
}

func TestResolveExclusivityEmptyInput(t *testing.T) {
	resolver, _ := NewResolver(&stubDiscountsRepo{})
	result, err := resolver.ResolveExclusivity(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Blocked {
		t.Fatal("empty product set never blocks")
	}
}
