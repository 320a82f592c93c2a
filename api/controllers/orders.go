package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/api/middleware"
	"github.com/velaria-store/velaria-backend/api/responses"
	"github.com/velaria-store/velaria-backend/api/validators"
	internalorders "github.com/velaria-store/velaria-backend/internal/orders"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/logger"
	"github.com/velaria-store/velaria-backend/pkg/pagination"
)

type orderStatusUpdateRequest struct {
	Status          string  `json:"status" validate:"required"`
	ExpectedVersion *int    `json:"expected_version" validate:"required,min=1"`
	TrackingNumber  *string `json:"tracking_number"`
	CourierName     *string `json:"courier_name"`
	CancelReason    *string `json:"cancel_reason"`
	DeliveryReason  *string `json:"delivery_reason"`
	Note            *string `json:"note"`
}

type orderRejectRequest struct {
	Reason string  `json:"reason" validate:"required"`
	Note   *string `json:"note"`
}

// OrderStatusUpdate moves an order along its lifecycle.
func OrderStatusUpdate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status"))
			return
		}

		snapshot, err := svc.UpdateStatus(r.Context(), internalorders.UpdateStatusInput{
			OrderID:         orderID,
			TargetStatus:    target,
			Actor:           actor,
			ExpectedVersion: payload.ExpectedVersion,
			TrackingNumber:  payload.TrackingNumber,
			CourierName:     payload.CourierName,
			CancelReason:    payload.CancelReason,
			DeliveryReason:  payload.DeliveryReason,
			Note:            payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// OrderReject is the dedicated payment-rejection entry point.
func OrderReject(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderRejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Reject(r.Context(), internalorders.RejectInput{
			OrderID: orderID,
			Reason:  payload.Reason,
			Actor:   actor,
			Note:    payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// OrderTransitions lists the statuses the order can legally move to.
func OrderTransitions(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := orderIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transitions, err := svc.AvailableTransitions(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"transitions": transitions})
	}
}

// SalesList returns the paginated back-office order listing.
func SalesList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dateFrom, err := validators.ParseQueryTime(r, "date_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dateTo, err := validators.ParseQueryTime(r, "date_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var statuses []enums.OrderStatus
		for _, raw := range validators.ParseQueryList(r, "status") {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			statuses = append(statuses, status)
		}

		page, err := svc.Sales(r.Context(), internalorders.SalesFilters{
			Statuses: statuses,
			DateFrom: dateFrom,
			DateTo:   dateTo,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// DashboardStats serves the cached back-office counters.
func DashboardStats(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func orderIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}

func actorFromRequest(r *http.Request) (internalorders.Actor, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return internalorders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return internalorders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return internalorders.Actor{
		ID:    actorID,
		Email: middleware.ActorEmailFromContext(r.Context()),
		Role:  middleware.RoleFromContext(r.Context()),
	}, nil
}
