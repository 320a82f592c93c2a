package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// Order is the financial record created at checkout completion. Rows are
// never hard-deleted; every state-changing write bumps Version by one and
// must be conditioned on the version the writer read.
type Order struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        int64                 `gorm:"column:order_number;not null"`
	CustomerID         uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	FulfillmentType    enums.FulfillmentType `gorm:"column:fulfillment_type;type:text;not null"`
	Status             enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	Version            int                   `gorm:"column:version;not null;default:1"`
	SubtotalCents      int                   `gorm:"column:subtotal_cents;not null"`
	PointDiscountCents int                   `gorm:"column:point_discount_cents;not null;default:0"`
	TotalCents         int                   `gorm:"column:total_cents;not null"`
	TrackingNumber     *string               `gorm:"column:tracking_number"`
	CourierName        *string               `gorm:"column:courier_name"`
	CancelReason       *string               `gorm:"column:cancel_reason"`
	DeliveryReason     *string               `gorm:"column:delivery_reason"`
	RejectionReason    *string               `gorm:"column:rejection_reason"`
	InvoiceRef         *string               `gorm:"column:invoice_ref"`
	PaymentApprovedAt  *time.Time            `gorm:"column:payment_approved_at"`
	PaymentRejectedAt  *time.Time            `gorm:"column:payment_rejected_at"`
	PreparingAt        *time.Time            `gorm:"column:preparing_at"`
	ReadyAt            *time.Time            `gorm:"column:ready_at"`
	ShippedAt          *time.Time            `gorm:"column:shipped_at"`
	DeliveredAt        *time.Time            `gorm:"column:delivered_at"`
	NotDeliveredAt     *time.Time            `gorm:"column:not_delivered_at"`
	CanceledAt         *time.Time            `gorm:"column:canceled_at"`
	Items              []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
