package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// Promotion is a time-boxed, scoped discount campaign. Both window bounds
// are inclusive instants. Once a promotion has recorded usages it can only
// be soft-disabled, never deleted.
type Promotion struct {
	ID                    uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                  string                      `gorm:"column:name;not null"`
	DiscountType          enums.PromotionDiscountType `gorm:"column:discount_type;type:text;not null"`
	Percent               *int                        `gorm:"column:percent"`
	AmountCents           *int                        `gorm:"column:amount_cents"`
	BuyQty                *int                        `gorm:"column:buy_qty"`
	GetQty                *int                        `gorm:"column:get_qty"`
	StartsAt              time.Time                   `gorm:"column:starts_at;not null"`
	EndsAt                time.Time                   `gorm:"column:ends_at;not null"`
	IsActive              bool                        `gorm:"column:is_active;not null;default:true"`
	ExclusiveWithCodes    bool                        `gorm:"column:exclusive_with_codes;not null;default:false"`
	ApplicableProductIDs  pq.StringArray              `gorm:"column:applicable_product_ids;type:text[]"`
	ApplicableCategoryIDs pq.StringArray              `gorm:"column:applicable_category_ids;type:text[]"`
	MaxUses               int                         `gorm:"column:max_uses;not null;default:0"`
	MaxUsesPerUser        int                         `gorm:"column:max_uses_per_user;not null;default:0"`
	UsesCount             int                         `gorm:"column:uses_count;not null;default:0"`
	DisabledAt            *time.Time                  `gorm:"column:disabled_at"`
	CreatedAt             time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
