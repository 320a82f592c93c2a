package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/api/middleware"
	"github.com/velaria-store/velaria-backend/api/responses"
	"github.com/velaria-store/velaria-backend/api/validators"
	"github.com/velaria-store/velaria-backend/internal/discounts"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/logger"
)

type couponValidateRequest struct {
	Code       string   `json:"code" validate:"required"`
	ProductIDs []string `json:"product_ids" validate:"omitempty,dive,uuid"`
}

type couponApplyRequest struct {
	Code          string   `json:"code" validate:"required"`
	OrderID       *string  `json:"order_id" validate:"omitempty,uuid"`
	ProductIDs    []string `json:"product_ids" validate:"omitempty,dive,uuid"`
	SubtotalCents int      `json:"subtotal_cents" validate:"min=0"`
}

// CouponValidate is the advisory pre-checkout check.
func CouponValidate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload couponValidateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productIDs, err := parseUUIDList(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ValidateCode(r.Context(), discounts.ValidateCodeInput{
			Code:       payload.Code,
			UserID:     userID,
			ProductIDs: productIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CouponApply is the enforcing application at checkout commit.
func CouponApply(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload couponApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productIDs, err := parseUUIDList(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var orderID *uuid.UUID
		if payload.OrderID != nil && strings.TrimSpace(*payload.OrderID) != "" {
			parsed, parseErr := uuid.Parse(strings.TrimSpace(*payload.OrderID))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid order_id"))
				return
			}
			orderID = &parsed
		}

		result, err := svc.ApplyCode(r.Context(), discounts.ApplyCodeInput{
			Code:          payload.Code,
			UserID:        userID,
			OrderID:       orderID,
			ProductIDs:    productIDs,
			SubtotalCents: payload.SubtotalCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

func parseUUIDList(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
