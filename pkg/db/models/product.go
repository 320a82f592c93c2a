package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents the catalog listing consulted by the discount resolver.
type Product struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string     `gorm:"column:name;not null"`
	SKU                string     `gorm:"column:sku;not null"`
	CategoryID         *uuid.UUID `gorm:"column:category_id;type:uuid"`
	PriceCents         int        `gorm:"column:price_cents;not null"`
	InLiquidation      bool       `gorm:"column:in_liquidation;not null;default:false"`
	LiquidationPercent int        `gorm:"column:liquidation_percent;not null;default:0"`
	AppliesPromotion   bool       `gorm:"column:applies_promotion;not null;default:false"`
	PromotionID        *uuid.UUID `gorm:"column:promotion_id;type:uuid"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
