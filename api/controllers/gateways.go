package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/api/responses"
	"github.com/velaria-store/velaria-backend/api/validators"
	"github.com/velaria-store/velaria-backend/internal/gateways"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/logger"
)

type gatewayQuoteRequest struct {
	BasePriceCents int     `json:"base_price_cents" validate:"min=0"`
	ProductID      *string `json:"product_id" validate:"omitempty,uuid"`
	CategoryID     *string `json:"category_id" validate:"omitempty,uuid"`
}

// GatewayQuote prices a purchase through a specific payment gateway.
func GatewayQuote(svc gateways.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateways service unavailable"))
			return
		}

		rawGatewayID := strings.TrimSpace(chi.URLParam(r, "gatewayID"))
		if rawGatewayID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "gateway id is required"))
			return
		}
		gatewayID, err := uuid.Parse(rawGatewayID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gateway id"))
			return
		}

		var payload gatewayQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseOptionalUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := parseOptionalUUID(payload.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), gateways.QuoteInput{
			GatewayID:      gatewayID,
			BasePriceCents: payload.BasePriceCents,
			ProductID:      productID,
			CategoryID:     categoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &id, nil
}
