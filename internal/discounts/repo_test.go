package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  category_id TEXT,
  price_cents INTEGER NOT NULL,
  in_liquidation INTEGER NOT NULL DEFAULT 0,
  liquidation_percent INTEGER NOT NULL DEFAULT 0,
  applies_promotion INTEGER NOT NULL DEFAULT 0,
  promotion_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	promotions := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  discount_type TEXT NOT NULL,
  percent INTEGER,
  amount_cents INTEGER,
  buy_qty INTEGER,
  get_qty INTEGER,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  exclusive_with_codes INTEGER NOT NULL DEFAULT 0,
  applicable_product_ids TEXT,
  applicable_category_ids TEXT,
  max_uses INTEGER NOT NULL DEFAULT 0,
  max_uses_per_user INTEGER NOT NULL DEFAULT 0,
  uses_count INTEGER NOT NULL DEFAULT 0,
  disabled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	codes := `
CREATE TABLE IF NOT EXISTS promotional_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_percent INTEGER,
  bundle_type TEXT,
  combinable INTEGER NOT NULL DEFAULT 0,
  exclusive_with_promotions INTEGER NOT NULL DEFAULT 0,
  starts_at DATETIME,
  ends_at DATETIME,
  max_uses INTEGER NOT NULL DEFAULT 0,
  max_uses_per_user INTEGER NOT NULL DEFAULT 0,
  uses_count INTEGER NOT NULL DEFAULT 0,
  allowed_user_ids TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	redemptions := `
CREATE TABLE IF NOT EXISTS coupon_redemptions (
  id TEXT PRIMARY KEY,
  code_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  order_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(promotions).Error)
	require.NoError(t, db.Exec(codes).Error)
	require.NoError(t, db.Exec(redemptions).Error)
	return db
}

func seedPromotion(t *testing.T, db *gorm.DB, name string, startsAt, endsAt time.Time, active bool) *models.Promotion {
	t.Helper()

	promotion := &models.Promotion{
		ID:           uuid.New(),
		Name:         name,
		DiscountType: enums.PromotionDiscountPercentage,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		IsActive:     active,
	}
	require.NoError(t, db.Create(promotion).Error)
	return promotion
}

func TestFindActivePromotionsWindow(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	current := seedPromotion(t, db, "Current", now.Add(-time.Hour), now.Add(time.Hour), true)
	expired := seedPromotion(t, db, "Expired", now.Add(-48*time.Hour), now.Add(-24*time.Hour), true)
	upcoming := seedPromotion(t, db, "Upcoming", now.Add(24*time.Hour), now.Add(48*time.Hour), true)
	inactive := seedPromotion(t, db, "Inactive", now.Add(-time.Hour), now.Add(time.Hour), false)
	disabled := seedPromotion(t, db, "Disabled", now.Add(-time.Hour), now.Add(time.Hour), true)
	disabledAt := now.Add(-time.Minute)
	require.NoError(t, db.Model(disabled).Update("disabled_at", disabledAt).Error)

	ids := []uuid.UUID{current.ID, expired.ID, upcoming.ID, inactive.ID, disabled.ID}
	active, err := repo.FindActivePromotions(ctx, ids, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, current.ID, active[0].ID)
}

func TestFindActivePromotionsInclusiveBounds(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	edge := seedPromotion(t, db, "Edge", now, now, true)

	active, err := repo.FindActivePromotions(ctx, []uuid.UUID{edge.ID}, now)
	require.NoError(t, err)
	require.Len(t, active, 1, "both window bounds are inclusive")
}

func TestIncrementCodeUsageCap(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	code := &models.PromotionalCode{
		ID:       uuid.New(),
		Code:     "CAPPED",
		IsActive: true,
		MaxUses:  2,
	}
	require.NoError(t, db.Create(code).Error)

	for i := 0; i < 2; i++ {
		rows, err := repo.IncrementCodeUsage(ctx, code.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, rows)
	}

	rows, err := repo.IncrementCodeUsage(ctx, code.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows, "increment past the cap must not land")

	var reloaded models.PromotionalCode
	require.NoError(t, db.Where("id = ?", code.ID).First(&reloaded).Error)
	assert.Equal(t, 2, reloaded.UsesCount)
}

func TestIncrementCodeUsageUncapped(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	code := &models.PromotionalCode{
		ID:       uuid.New(),
		Code:     "OPEN",
		IsActive: true,
		MaxUses:  0,
	}
	require.NoError(t, db.Create(code).Error)

	for i := 0; i < 5; i++ {
		rows, err := repo.IncrementCodeUsage(ctx, code.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, rows)
	}
}

func TestFindCodeByValueAndRedemptions(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	discount := 10
	code := &models.PromotionalCode{
		ID:              uuid.New(),
		Code:            "WELCOME10",
		DiscountPercent: &discount,
		IsActive:        true,
	}
	require.NoError(t, db.Create(code).Error)

	found, err := repo.FindCodeByValue(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, code.ID, found.ID)

	_, err = repo.FindCodeByValue(ctx, "MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	userID := uuid.New()
	require.NoError(t, repo.CreateRedemption(ctx, &models.CouponRedemption{
		ID:     uuid.New(),
		CodeID: code.ID,
		UserID: userID,
	}))

	count, err := repo.CountRedemptions(ctx, code.ID, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountRedemptions(ctx, code.ID, uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestFindProducts(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := &models.Product{
		ID:                 uuid.New(),
		Name:               "Clearance Jacket",
		SKU:                "JKT-001",
		PriceCents:         9900,
		InLiquidation:      true,
		LiquidationPercent: 20,
		IsActive:           true,
	}
	require.NoError(t, db.Create(product).Error)

	products, err := repo.FindProducts(ctx, []uuid.UUID{product.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].InLiquidation)

	products, err = repo.FindProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}
