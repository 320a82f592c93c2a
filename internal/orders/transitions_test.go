package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
)

func TestTerminalStatusesRejectEveryTransition(t *testing.T) {
	terminals := []enums.OrderStatus{
		enums.OrderStatusDelivered,
		enums.OrderStatusCanceled,
		enums.OrderStatusPaymentRejected,
		enums.OrderStatusNotDelivered,
	}
	targets := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPaymentApproved,
		enums.OrderStatusPreparing,
		enums.OrderStatusReadyForShipping,
		enums.OrderStatusInTransit,
		enums.OrderStatusDelivered,
		enums.OrderStatusCanceled,
	}
	for _, terminal := range terminals {
		for _, target := range targets {
			order := &models.Order{Status: terminal, FulfillmentType: enums.FulfillmentShipping}
			err := ValidateTransition(order, target, TransitionData{})
			require.Error(t, err, "from %s to %s", terminal, target)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
			assert.Contains(t, typed.Message(), "cannot modify")
			assert.Contains(t, typed.Message(), string(terminal))
		}
	}
}

func TestFulfillmentBranchOutOfPreparing(t *testing.T) {
	pickup := &models.Order{Status: enums.OrderStatusPreparing, FulfillmentType: enums.FulfillmentPickup}
	require.Error(t, ValidateTransition(pickup, enums.OrderStatusReadyForShipping, TransitionData{}))
	require.NoError(t, ValidateTransition(pickup, enums.OrderStatusReadyForPickup, TransitionData{}))

	shipping := &models.Order{Status: enums.OrderStatusPreparing, FulfillmentType: enums.FulfillmentShipping}
	require.NoError(t, ValidateTransition(shipping, enums.OrderStatusReadyForShipping, TransitionData{}))
	require.Error(t, ValidateTransition(shipping, enums.OrderStatusReadyForPickup, TransitionData{}))
}

func TestDispatchRequiresTrackingAndCourier(t *testing.T) {
	order := &models.Order{Status: enums.OrderStatusReadyForShipping, FulfillmentType: enums.FulfillmentShipping}

	err := ValidateTransition(order, enums.OrderStatusInTransit, TransitionData{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	tracking := "TRK-100"
	blank := "   "
	err = ValidateTransition(order, enums.OrderStatusInTransit, TransitionData{
		TrackingNumber: &tracking,
		CourierName:    &blank,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	courier := "DHL"
	require.NoError(t, ValidateTransition(order, enums.OrderStatusInTransit, TransitionData{
		TrackingNumber: &tracking,
		CourierName:    &courier,
	}))
}

func TestUnknownEdgeNamesBothStatuses(t *testing.T) {
	order := &models.Order{Status: enums.OrderStatusPending, FulfillmentType: enums.FulfillmentShipping}
	err := ValidateTransition(order, enums.OrderStatusDelivered, TransitionData{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Contains(t, typed.Message(), "from pending to delivered")
}

func TestCancelableFromEveryNonTerminalStatus(t *testing.T) {
	nonTerminals := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPaymentApproved,
		enums.OrderStatusPreparing,
		enums.OrderStatusReadyForShipping,
		enums.OrderStatusReadyForPickup,
		enums.OrderStatusInTransit,
	}
	for _, status := range nonTerminals {
		order := &models.Order{Status: status, FulfillmentType: enums.FulfillmentShipping}
		require.NoError(t, ValidateTransition(order, enums.OrderStatusCanceled, TransitionData{}), "from %s", status)
	}
}

func TestAvailableFromMatchesTable(t *testing.T) {
	cases := []struct {
		name        string
		status      enums.OrderStatus
		fulfillment enums.FulfillmentType
		want        []enums.OrderStatus
	}{
		{
			name:        "pending",
			status:      enums.OrderStatusPending,
			fulfillment: enums.FulfillmentShipping,
			want: []enums.OrderStatus{
				enums.OrderStatusCanceled,
				enums.OrderStatusPaymentApproved,
				enums.OrderStatusPaymentRejected,
			},
		},
		{
			name:        "preparing shipping",
			status:      enums.OrderStatusPreparing,
			fulfillment: enums.FulfillmentShipping,
			want: []enums.OrderStatus{
				enums.OrderStatusCanceled,
				enums.OrderStatusReadyForShipping,
			},
		},
		{
			name:        "preparing pickup",
			status:      enums.OrderStatusPreparing,
			fulfillment: enums.FulfillmentPickup,
			want: []enums.OrderStatus{
				enums.OrderStatusCanceled,
				enums.OrderStatusReadyForPickup,
			},
		},
		{
			name:        "ready for pickup goes straight to delivered",
			status:      enums.OrderStatusReadyForPickup,
			fulfillment: enums.FulfillmentPickup,
			want: []enums.OrderStatus{
				enums.OrderStatusCanceled,
				enums.OrderStatusDelivered,
			},
		},
		{
			name:        "in transit",
			status:      enums.OrderStatusInTransit,
			fulfillment: enums.FulfillmentShipping,
			want: []enums.OrderStatus{
				enums.OrderStatusCanceled,
				enums.OrderStatusDelivered,
				enums.OrderStatusNotDelivered,
			},
		},
		{
			name:        "delivered is terminal",
			status:      enums.OrderStatusDelivered,
			fulfillment: enums.FulfillmentShipping,
			want:        []enums.OrderStatus{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AvailableFrom(tc.status, tc.fulfillment)
			assert.Equal(t, tc.want, got)
			// Repeated reads without a write return the identical set.
			assert.Equal(t, got, AvailableFrom(tc.status, tc.fulfillment))
		})
	}
}

func TestEveryTableEdgeValidates(t *testing.T) {
	tracking := "TRK-1"
	courier := "Estafeta"
	for key, rule := range transitionTable {
		fulfillment := rule.fulfillment
		if fulfillment == "" {
			fulfillment = enums.FulfillmentShipping
		}
		order := &models.Order{Status: key.from, FulfillmentType: fulfillment}
		err := ValidateTransition(order, key.to, TransitionData{
			TrackingNumber: &tracking,
			CourierName:    &courier,
		})
		require.NoError(t, err, "from %s to %s", key.from, key.to)
	}
}
