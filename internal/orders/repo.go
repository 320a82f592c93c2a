package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatusCAS performs the version-checked status write. The returned
// row count is zero when a concurrent writer moved the version first. The
// status timestamp column is stamped through COALESCE so a status re-entered
// later keeps its original instant.
func (r *repository) UpdateOrderStatusCAS(ctx context.Context, write StatusWrite) (int64, error) {
	now := write.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	updates := map[string]any{
		"status":     write.NewStatus,
		"version":    gorm.Expr("version + 1"),
		"updated_at": now,
	}
	if column := TimestampColumn(write.NewStatus); column != "" {
		updates[column] = gorm.Expr("COALESCE("+column+", ?)", now)
	}
	if write.TrackingNumber != nil {
		updates["tracking_number"] = *write.TrackingNumber
	}
	if write.CourierName != nil {
		updates["courier_name"] = *write.CourierName
	}
	if write.CancelReason != nil {
		updates["cancel_reason"] = *write.CancelReason
	}
	if write.DeliveryReason != nil {
		updates["delivery_reason"] = *write.DeliveryReason
	}
	if write.RejectionReason != nil {
		updates["rejection_reason"] = *write.RejectionReason
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", write.OrderID, write.ExpectedVersion).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) CreateAudit(ctx context.Context, audit *models.OrderStatusAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *repository) ListSales(ctx context.Context, filters SalesFilters) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// DashboardAggregates scans the orders table for today's activity. Revenue
// excludes rejected and canceled orders; sales count delivered orders.
func (r *repository) DashboardAggregates(ctx context.Context, dayStart time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := r.db.WithContext(ctx).Model(&models.Order{})

	if err := db.Session(&gorm.Session{}).
		Where("created_at >= ?", dayStart).
		Count(&stats.OrdersToday).Error; err != nil {
		return nil, err
	}

	var revenue *int64
	err := db.Session(&gorm.Session{}).
		Select("SUM(total_cents)").
		Where("created_at >= ?", dayStart).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCanceled, enums.OrderStatusPaymentRejected}).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.RevenueTodayCents = *revenue
	}

	if err := db.Session(&gorm.Session{}).
		Where("delivered_at >= ?", dayStart).
		Count(&stats.SalesToday).Error; err != nil {
		return nil, err
	}

	if err := db.Session(&gorm.Session{}).
		Where("status = ?", enums.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
