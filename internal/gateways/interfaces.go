package gateways

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
)

// Repository defines persistence operations for gateways and their rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindGateway(ctx context.Context, gatewayID uuid.UUID) (*models.PaymentGateway, error)
	FindActiveRules(ctx context.Context, gatewayID uuid.UUID) ([]models.GatewayPriceRule, error)
}
