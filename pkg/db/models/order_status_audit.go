package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// OrderStatusAudit is the append-only trail of status transitions. Rows are
// written in the same transaction as the status change and never mutated.
type OrderStatusAudit struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	FromStatus enums.OrderStatus `gorm:"column:from_status;type:text;not null"`
	ToStatus   enums.OrderStatus `gorm:"column:to_status;type:text;not null"`
	ActorID    uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	ActorEmail string            `gorm:"column:actor_email;not null"`
	Note       *string           `gorm:"column:note"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
