package enums

import "fmt"

// OrderStatus tracks the CMS lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusPaymentApproved  OrderStatus = "payment_approved"
	OrderStatusPaymentRejected  OrderStatus = "payment_rejected"
	OrderStatusPreparing        OrderStatus = "preparing"
	OrderStatusReadyForShipping OrderStatus = "ready_for_shipping"
	OrderStatusReadyForPickup   OrderStatus = "ready_for_pickup"
	OrderStatusInTransit        OrderStatus = "in_transit"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusNotDelivered     OrderStatus = "not_delivered"
	OrderStatusCanceled         OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaymentApproved,
	OrderStatusPaymentRejected,
	OrderStatusPreparing,
	OrderStatusReadyForShipping,
	OrderStatusReadyForPickup,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusNotDelivered,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from the status.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusDelivered, OrderStatusCanceled, OrderStatusPaymentRejected, OrderStatusNotDelivered:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
