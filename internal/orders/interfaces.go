package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// StatusWrite describes the conditional status update. ExpectedVersion is the
// version the writer read; the UPDATE only lands when it still matches.
type StatusWrite struct {
	OrderID         uuid.UUID
	ExpectedVersion int
	NewStatus       enums.OrderStatus
	Now             time.Time
	TrackingNumber  *string
	CourierName     *string
	CancelReason    *string
	DeliveryReason  *string
	RejectionReason *string
}

// Repository defines persistence operations for order lifecycle tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatusCAS(ctx context.Context, write StatusWrite) (int64, error)
	CreateAudit(ctx context.Context, audit *models.OrderStatusAudit) error
	ListSales(ctx context.Context, filters SalesFilters) ([]models.Order, int64, error)
	DashboardAggregates(ctx context.Context, dayStart time.Time) (*DashboardStats, error)
}
