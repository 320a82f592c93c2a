package gateways

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
)

// QuoteInput carries a single price calculation request.
type QuoteInput struct {
	GatewayID      uuid.UUID
	BasePriceCents int
	ProductID      *uuid.UUID
	CategoryID     *uuid.UUID
}

// QuoteResult wraps the engine output with the gateway identity.
type QuoteResult struct {
	GatewayID   uuid.UUID `json:"gateway_id"`
	GatewayName string    `json:"gateway_name"`
	Quote
}

// Service defines the gateway pricing operations.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type service struct {
	repo Repository
}

// NewService builds the gateway pricing service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gateways repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.GatewayID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway id required")
	}
	if input.BasePriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must not be negative")
	}

	gateway, err := s.repo.FindGateway(ctx, input.GatewayID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment gateway not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment gateway")
	}

	rules, err := s.repo.FindActiveRules(ctx, gateway.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price rules")
	}

	quote := ComputeQuote(input.BasePriceCents, input.ProductID, input.CategoryID, rules, FeeSchedule{
		FixedCents: gateway.FeeFixedCents,
		Percent:    gateway.FeePercent,
	})
	return &QuoteResult{
		GatewayID:   gateway.ID,
		GatewayName: gateway.Name,
		Quote:       quote,
	}, nil
}
