package gateways

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gateways repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindGateway(ctx context.Context, gatewayID uuid.UUID) (*models.PaymentGateway, error) {
	var gateway models.PaymentGateway
	err := r.db.WithContext(ctx).
		Where("id = ?", gatewayID).
		First(&gateway).Error
	if err != nil {
		return nil, err
	}
	return &gateway, nil
}

// FindActiveRules returns the gateway's active rules ordered the way the
// engine applies them: product scope first, then category, then global,
// priority descending within each scope.
func (r *repository) FindActiveRules(ctx context.Context, gatewayID uuid.UUID) ([]models.GatewayPriceRule, error) {
	var rules []models.GatewayPriceRule
	err := r.db.WithContext(ctx).
		Where("gateway_id = ? AND is_active = ?", gatewayID, true).
		Order("CASE scope WHEN 'product' THEN 0 WHEN 'category' THEN 1 ELSE 2 END, priority DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
