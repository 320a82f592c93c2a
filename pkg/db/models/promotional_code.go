package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// PromotionalCode is a customer-entered coupon. Codes are stored in their
// canonical upper-cased form. An active code must carry at least one of
// {discount percent, bundle type}.
type PromotionalCode struct {
	ID                      uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                    string                  `gorm:"column:code;uniqueIndex;not null"`
	DiscountPercent         *int                    `gorm:"column:discount_percent"`
	BundleType              *enums.CouponBundleType `gorm:"column:bundle_type;type:text"`
	Combinable              bool                    `gorm:"column:combinable;not null;default:false"`
	ExclusiveWithPromotions bool                    `gorm:"column:exclusive_with_promotions;not null;default:false"`
	StartsAt                *time.Time              `gorm:"column:starts_at"`
	EndsAt                  *time.Time              `gorm:"column:ends_at"`
	MaxUses                 int                     `gorm:"column:max_uses;not null;default:0"`
	MaxUsesPerUser          int                     `gorm:"column:max_uses_per_user;not null;default:0"`
	UsesCount               int                     `gorm:"column:uses_count;not null;default:0"`
	AllowedUserIDs          pq.StringArray          `gorm:"column:allowed_user_ids;type:text[]"`
	IsActive                bool                    `gorm:"column:is_active;not null;default:true"`
	CreatedAt               time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
