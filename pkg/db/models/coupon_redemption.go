package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponRedemption records a single successful application of a promotional
// code, used for per-user cap accounting.
type CouponRedemption struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CodeID    uuid.UUID  `gorm:"column:code_id;type:uuid;not null"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	OrderID   *uuid.UUID `gorm:"column:order_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
