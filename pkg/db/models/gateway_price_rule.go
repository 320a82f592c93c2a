package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// GatewayPriceRule is a scoped adjustment applied before the gateway fee.
// AmountCents takes precedence over Percent when both are set. Rules apply
// product scope first, then category, then global, priority descending
// within each scope.
type GatewayPriceRule struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GatewayID   uuid.UUID             `gorm:"column:gateway_id;type:uuid;not null"`
	Scope       enums.PriceRuleScope  `gorm:"column:scope;type:text;not null"`
	ScopeID     *uuid.UUID            `gorm:"column:scope_id;type:uuid"`
	Action      enums.PriceRuleAction `gorm:"column:action;type:text;not null"`
	AmountCents *int                  `gorm:"column:amount_cents"`
	Percent     *float64              `gorm:"column:percent;type:numeric(5,2)"`
	Priority    int                   `gorm:"column:priority;not null;default:0"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
