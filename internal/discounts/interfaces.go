package discounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
)

// Repository defines persistence operations for products, promotions and
// promotional codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error)
	FindActivePromotions(ctx context.Context, promotionIDs []uuid.UUID, at time.Time) ([]models.Promotion, error)
	FindCodeByValue(ctx context.Context, code string) (*models.PromotionalCode, error)
	IncrementCodeUsage(ctx context.Context, codeID uuid.UUID) (int64, error)
	CountRedemptions(ctx context.Context, codeID, userID uuid.UUID) (int64, error)
	CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error
}
