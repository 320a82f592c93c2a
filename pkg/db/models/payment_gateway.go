package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentGateway holds the locally configured fee schedule for a gateway.
// Fees are passed through to the customer on top of the rule-adjusted price.
type PaymentGateway struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Slug          string    `gorm:"column:slug;uniqueIndex;not null"`
	FeeFixedCents int       `gorm:"column:fee_fixed_cents;not null;default:0"`
	FeePercent    float64   `gorm:"column:fee_percent;type:numeric(5,2);not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
