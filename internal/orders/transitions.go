package orders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
)

// TransitionData carries the optional side-data a transition may persist.
// Guards inspect it before any write happens.
type TransitionData struct {
	TrackingNumber  *string
	CourierName     *string
	CancelReason    *string
	DeliveryReason  *string
	RejectionReason *string
}

type transitionKey struct {
	from enums.OrderStatus
	to   enums.OrderStatus
}

// transitionRule gates a single edge of the status graph. fulfillment narrows
// the edge to one fulfillment type; guard runs after the fulfillment check.
type transitionRule struct {
	fulfillment enums.FulfillmentType
	guard       func(data TransitionData) error
}

func requireShippingDetails(data TransitionData) error {
	tracking := ""
	if data.TrackingNumber != nil {
		tracking = strings.TrimSpace(*data.TrackingNumber)
	}
	courier := ""
	if data.CourierName != nil {
		courier = strings.TrimSpace(*data.CourierName)
	}
	if tracking == "" || courier == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "tracking number and courier name are required to dispatch")
	}
	return nil
}

// transitionTable is the single source of truth for legal status edges. Both
// enforcement (ValidateTransition) and the outgoing-edge query
// (AvailableFrom) read it, so the two can never drift apart.
var transitionTable = map[transitionKey]transitionRule{
	{enums.OrderStatusPending, enums.OrderStatusPaymentApproved}: {},
	{enums.OrderStatusPending, enums.OrderStatusPaymentRejected}: {},

	{enums.OrderStatusPaymentApproved, enums.OrderStatusPreparing}: {},

	{enums.OrderStatusPreparing, enums.OrderStatusReadyForShipping}: {fulfillment: enums.FulfillmentShipping},
	{enums.OrderStatusPreparing, enums.OrderStatusReadyForPickup}:   {fulfillment: enums.FulfillmentPickup},

	{enums.OrderStatusReadyForShipping, enums.OrderStatusInTransit}: {guard: requireShippingDetails},

	{enums.OrderStatusInTransit, enums.OrderStatusDelivered}:    {},
	{enums.OrderStatusInTransit, enums.OrderStatusNotDelivered}: {},

	{enums.OrderStatusReadyForPickup, enums.OrderStatusDelivered}: {},

	{enums.OrderStatusPending, enums.OrderStatusCanceled}:          {},
	{enums.OrderStatusPaymentApproved, enums.OrderStatusCanceled}:  {},
	{enums.OrderStatusPreparing, enums.OrderStatusCanceled}:        {},
	{enums.OrderStatusReadyForShipping, enums.OrderStatusCanceled}: {},
	{enums.OrderStatusReadyForPickup, enums.OrderStatusCanceled}:   {},
	{enums.OrderStatusInTransit, enums.OrderStatusCanceled}:        {},
}

// ValidateTransition checks whether the order may move to target, without
// performing any write. Terminal statuses reject everything; unknown edges
// fail with the from/to pair named.
func ValidateTransition(order *models.Order, target enums.OrderStatus, data TransitionData) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", string(target)))
	}
	if order.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot modify order in terminal status %s", order.Status))
	}
	rule, ok := transitionTable[transitionKey{from: order.Status, to: target}]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("transition not permitted, from %s to %s", order.Status, target))
	}
	if rule.fulfillment != "" && rule.fulfillment != order.FulfillmentType {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("transition from %s to %s requires %s fulfillment", order.Status, target, rule.fulfillment))
	}
	if rule.guard != nil {
		return rule.guard(data)
	}
	return nil
}

// AvailableFrom lists the statuses reachable from current for the given
// fulfillment type, derived from the same table ValidateTransition enforces.
// Terminal statuses have no outgoing edges. The result order is stable.
func AvailableFrom(current enums.OrderStatus, fulfillment enums.FulfillmentType) []enums.OrderStatus {
	if current.IsTerminal() {
		return []enums.OrderStatus{}
	}
	targets := make([]enums.OrderStatus, 0, 4)
	for key, rule := range transitionTable {
		if key.from != current {
			continue
		}
		if rule.fulfillment != "" && rule.fulfillment != fulfillment {
			continue
		}
		targets = append(targets, key.to)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

// statusTimestampColumns maps each status to the order column stamped the
// first time that status is entered. Both ready statuses share ready_at.
var statusTimestampColumns = map[enums.OrderStatus]string{
	enums.OrderStatusPaymentApproved:  "payment_approved_at",
	enums.OrderStatusPaymentRejected:  "payment_rejected_at",
	enums.OrderStatusPreparing:        "preparing_at",
	enums.OrderStatusReadyForShipping: "ready_at",
	enums.OrderStatusReadyForPickup:   "ready_at",
	enums.OrderStatusInTransit:        "shipped_at",
	enums.OrderStatusDelivered:        "delivered_at",
	enums.OrderStatusNotDelivered:     "not_delivered_at",
	enums.OrderStatusCanceled:         "canceled_at",
}

// TimestampColumn returns the write-once timestamp column for a status, or
// the empty string when the status has none.
func TimestampColumn(status enums.OrderStatus) string {
	return statusTimestampColumns[status]
}
