package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the price snapshot of each item within an order.
// Created atomically with the order and immutable thereafter: the charged
// price history is a legal record.
type OrderLineItem struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID          uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Name               string     `gorm:"column:name;not null"`
	Qty                int        `gorm:"column:qty;not null"`
	Size               *string    `gorm:"column:size"`
	Color              *string    `gorm:"column:color"`
	UnitPriceCents     int        `gorm:"column:unit_price_cents;not null"`
	OriginalPriceCents int        `gorm:"column:original_price_cents;not null"`
	DiscountCents      int        `gorm:"column:discount_cents;not null;default:0"`
	PromotionID        *uuid.UUID `gorm:"column:promotion_id;type:uuid"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
}
