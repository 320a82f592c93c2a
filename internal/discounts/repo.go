package discounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindActivePromotions returns the promotions among promotionIDs that are
// active, not soft-disabled, and whose inclusive validity window contains
// the given instant.
func (r *repository) FindActivePromotions(ctx context.Context, promotionIDs []uuid.UUID, at time.Time) ([]models.Promotion, error) {
	if len(promotionIDs) == 0 {
		return nil, nil
	}
	var promotions []models.Promotion
	err := r.db.WithContext(ctx).
		Where("id IN ?", promotionIDs).
		Where("is_active = ?", true).
		Where("disabled_at IS NULL").
		Where("starts_at <= ? AND ends_at >= ?", at, at).
		Order("starts_at ASC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *repository) FindCodeByValue(ctx context.Context, code string) (*models.PromotionalCode, error) {
	var record models.PromotionalCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// IncrementCodeUsage bumps uses_count only while the global cap holds.
// max_uses = 0 means uncapped. A zero row count means the cap was reached
// by a concurrent redemption.
func (r *repository) IncrementCodeUsage(ctx context.Context, codeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE promotional_codes
		SET uses_count = uses_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND (max_uses = 0 OR uses_count < max_uses)
	`, codeID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) CountRedemptions(ctx context.Context, codeID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CouponRedemption{}).
		Where("code_id = ? AND user_id = ?", codeID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}
