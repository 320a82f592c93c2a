package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	"github.com/velaria-store/velaria-backend/pkg/pagination"
)

// Actor identifies who performs a state-changing operation. The caller is
// trusted to have authenticated it.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// UpdateStatusInput carries everything a status transition needs.
// ExpectedVersion is optional; when set, the write also fails if the stored
// order has moved past the version the caller read.
type UpdateStatusInput struct {
	OrderID         uuid.UUID
	TargetStatus    enums.OrderStatus
	Actor           Actor
	ExpectedVersion *int
	TrackingNumber  *string
	CourierName     *string
	CancelReason    *string
	DeliveryReason  *string
	RejectionReason *string
	Note            *string
}

// RejectInput captures the dedicated payment-rejection entry point.
type RejectInput struct {
	OrderID uuid.UUID
	Reason  string
	Actor   Actor
	Note    *string
}

// LineItemSnapshot mirrors an immutable order line for read responses.
type LineItemSnapshot struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"product_id"`
	Name               string     `json:"name"`
	Qty                int        `json:"qty"`
	Size               *string    `json:"size,omitempty"`
	Color              *string    `json:"color,omitempty"`
	UnitPriceCents     int        `json:"unit_price_cents"`
	OriginalPriceCents int        `json:"original_price_cents"`
	DiscountCents      int        `json:"discount_cents"`
	PromotionID        *uuid.UUID `json:"promotion_id,omitempty"`
}

// OrderSnapshot is the read model returned by state-changing and listing
// operations.
type OrderSnapshot struct {
	ID                 uuid.UUID             `json:"id"`
	OrderNumber        int64                 `json:"order_number"`
	CustomerID         uuid.UUID             `json:"customer_id"`
	FulfillmentType    enums.FulfillmentType `json:"fulfillment_type"`
	Status             enums.OrderStatus     `json:"status"`
	Version            int                   `json:"version"`
	SubtotalCents      int                   `json:"subtotal_cents"`
	PointDiscountCents int                   `json:"point_discount_cents"`
	TotalCents         int                   `json:"total_cents"`
	TrackingNumber     *string               `json:"tracking_number,omitempty"`
	CourierName        *string               `json:"courier_name,omitempty"`
	CancelReason       *string               `json:"cancel_reason,omitempty"`
	DeliveryReason     *string               `json:"delivery_reason,omitempty"`
	RejectionReason    *string               `json:"rejection_reason,omitempty"`
	InvoiceRef         *string               `json:"invoice_ref,omitempty"`
	PaymentApprovedAt  *time.Time            `json:"payment_approved_at,omitempty"`
	PaymentRejectedAt  *time.Time            `json:"payment_rejected_at,omitempty"`
	PreparingAt        *time.Time            `json:"preparing_at,omitempty"`
	ReadyAt            *time.Time            `json:"ready_at,omitempty"`
	ShippedAt          *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time            `json:"delivered_at,omitempty"`
	NotDeliveredAt     *time.Time            `json:"not_delivered_at,omitempty"`
	CanceledAt         *time.Time            `json:"canceled_at,omitempty"`
	Items              []LineItemSnapshot    `json:"items,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// SalesFilters is the closed set of filters the sales listing supports.
// An empty Statuses slice means all statuses.
type SalesFilters struct {
	Statuses []enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// SalesPage wraps one page of the sales listing.
type SalesPage struct {
	Orders []OrderSnapshot     `json:"orders"`
	Page   pagination.PageInfo `json:"page"`
}

// DashboardStats aggregates today's order activity for the CMS dashboard.
type DashboardStats struct {
	SalesToday        int64 `json:"sales_today"`
	RevenueTodayCents int64 `json:"revenue_today_cents"`
	OrdersToday       int64 `json:"orders_today"`
	PendingOrders     int64 `json:"pending_orders"`
}

func snapshotFromModel(order *models.Order) *OrderSnapshot {
	if order == nil {
		return nil
	}
	snapshot := &OrderSnapshot{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		CustomerID:         order.CustomerID,
		FulfillmentType:    order.FulfillmentType,
		Status:             order.Status,
		Version:            order.Version,
		SubtotalCents:      order.SubtotalCents,
		PointDiscountCents: order.PointDiscountCents,
		TotalCents:         order.TotalCents,
		TrackingNumber:     order.TrackingNumber,
		CourierName:        order.CourierName,
		CancelReason:       order.CancelReason,
		DeliveryReason:     order.DeliveryReason,
		RejectionReason:    order.RejectionReason,
		InvoiceRef:         order.InvoiceRef,
		PaymentApprovedAt:  order.PaymentApprovedAt,
		PaymentRejectedAt:  order.PaymentRejectedAt,
		PreparingAt:        order.PreparingAt,
		ReadyAt:            order.ReadyAt,
		ShippedAt:          order.ShippedAt,
		DeliveredAt:        order.DeliveredAt,
		NotDeliveredAt:     order.NotDeliveredAt,
		CanceledAt:         order.CanceledAt,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	for _, item := range order.Items {
		snapshot.Items = append(snapshot.Items, LineItemSnapshot{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Name:               item.Name,
			Qty:                item.Qty,
			Size:               item.Size,
			Color:              item.Color,
			UnitPriceCents:     item.UnitPriceCents,
			OriginalPriceCents: item.OriginalPriceCents,
			DiscountCents:      item.DiscountCents,
			PromotionID:        item.PromotionID,
		})
	}
	return snapshot
}
