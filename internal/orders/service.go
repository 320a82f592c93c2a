package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/logger"
	"github.com/velaria-store/velaria-backend/pkg/metrics"
	"github.com/velaria-store/velaria-backend/pkg/outbox"
	"github.com/velaria-store/velaria-backend/pkg/pagination"
)

const statsCacheKeyName = "dashboard_stats"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// statsCache is the slice of the redis client the dashboard cache needs.
type statsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(name string) string
}

// Service defines the order lifecycle operations.
type Service interface {
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderSnapshot, error)
	Reject(ctx context.Context, input RejectInput) (*OrderSnapshot, error)
	AvailableTransitions(ctx context.Context, orderID uuid.UUID) ([]enums.OrderStatus, error)
	Sales(ctx context.Context, filters SalesFilters) (*SalesPage, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	cache    statsCache
	cacheTTL time.Duration
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
}

// StatusChangedEvent is emitted on every committed transition.
type StatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber int64             `json:"order_number"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
	Version     int               `json:"version"`
}

// NewService builds the order service. Cache, metrics and logger are
// optional; repo, tx runner and outbox are not.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, cache statsCache, cacheTTL time.Duration, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   publisher,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  orderMetrics,
		logg:     logg,
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderSnapshot, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.TargetStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", string(input.TargetStatus)))
	}
	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if strings.TrimSpace(input.Actor.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor email required")
	}

	var snapshot *OrderSnapshot
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
			s.metrics.IncConflict()
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("order version moved from %d to %d, re-read and retry", *input.ExpectedVersion, order.Version))
		}

		data := TransitionData{
			TrackingNumber:  input.TrackingNumber,
			CourierName:     input.CourierName,
			CancelReason:    input.CancelReason,
			DeliveryReason:  input.DeliveryReason,
			RejectionReason: input.RejectionReason,
		}
		if err := ValidateTransition(order, input.TargetStatus, data); err != nil {
			s.metrics.IncRejected(order.Status.String(), input.TargetStatus.String())
			return err
		}

		now := time.Now().UTC()
		rows, err := repo.UpdateOrderStatusCAS(ctx, StatusWrite{
			OrderID:         order.ID,
			ExpectedVersion: order.Version,
			NewStatus:       input.TargetStatus,
			Now:             now,
			TrackingNumber:  input.TrackingNumber,
			CourierName:     input.CourierName,
			CancelReason:    input.CancelReason,
			DeliveryReason:  input.DeliveryReason,
			RejectionReason: input.RejectionReason,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			s.metrics.IncConflict()
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently, re-read and retry")
		}

		audit := &models.OrderStatusAudit{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   input.TargetStatus,
			ActorID:    input.Actor.ID,
			ActorEmail: input.Actor.Email,
			Note:       input.Note,
		}
		if err := repo.CreateAudit(ctx, audit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status audit")
		}

		fromStatus := order.Status
		applyWrite(order, input, now)

		event := outbox.DomainEvent{
			EventType:     eventTypeFor(input.TargetStatus),
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID: input.Actor.ID,
				Email:  input.Actor.Email,
				Role:   input.Actor.Role,
			},
			Data: StatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				FromStatus:  fromStatus,
				ToStatus:    input.TargetStatus,
				Version:     order.Version,
			},
		}
		// Event delivery must never abort a committed transition.
		if err := s.outbox.Emit(ctx, tx, event); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "queue order event", err)
		}

		s.metrics.IncApplied(fromStatus.String(), input.TargetStatus.String())
		snapshot = snapshotFromModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Reject(ctx context.Context, input RejectInput) (*OrderSnapshot, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}
	return s.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:         input.OrderID,
		TargetStatus:    enums.OrderStatusPaymentRejected,
		Actor:           input.Actor,
		RejectionReason: &reason,
		Note:            input.Note,
	})
}

func (s *service) AvailableTransitions(ctx context.Context, orderID uuid.UUID) ([]enums.OrderStatus, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return AvailableFrom(order.Status, order.FulfillmentType), nil
}

func (s *service) Sales(ctx context.Context, filters SalesFilters) (*SalesPage, error) {
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", string(status)))
		}
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_to must not precede date_from")
	}

	params := pagination.Normalize(pagination.Params{Limit: filters.Limit, Offset: filters.Offset})
	filters.Limit = params.Limit
	filters.Offset = params.Offset

	rows, total, err := s.repo.ListSales(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	page := &SalesPage{
		Orders: make([]OrderSnapshot, 0, len(rows)),
		Page: pagination.PageInfo{
			Limit:  params.Limit,
			Offset: params.Offset,
			Total:  total,
		},
	}
	for i := range rows {
		page.Orders = append(page.Orders, *snapshotFromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.CacheKey(statsCacheKeyName)
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached DashboardStats
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.repo.DashboardAggregates(ctx, startOfDay(time.Now().UTC()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate dashboard stats")
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "cache dashboard stats: "+err.Error())
			}
		}
	}
	return stats, nil
}

// applyWrite mirrors the conditional UPDATE on the in-memory order so the
// returned snapshot matches the committed row without a re-read.
func applyWrite(order *models.Order, input UpdateStatusInput, now time.Time) {
	order.Status = input.TargetStatus
	order.Version++
	order.UpdatedAt = now
	if input.TrackingNumber != nil {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.CourierName != nil {
		order.CourierName = input.CourierName
	}
	if input.CancelReason != nil {
		order.CancelReason = input.CancelReason
	}
	if input.DeliveryReason != nil {
		order.DeliveryReason = input.DeliveryReason
	}
	if input.RejectionReason != nil {
		order.RejectionReason = input.RejectionReason
	}
	stampOnce := func(field **time.Time) {
		if *field == nil {
			ts := now
			*field = &ts
		}
	}
	switch input.TargetStatus {
	case enums.OrderStatusPaymentApproved:
		stampOnce(&order.PaymentApprovedAt)
	case enums.OrderStatusPaymentRejected:
		stampOnce(&order.PaymentRejectedAt)
	case enums.OrderStatusPreparing:
		stampOnce(&order.PreparingAt)
	case enums.OrderStatusReadyForShipping, enums.OrderStatusReadyForPickup:
		stampOnce(&order.ReadyAt)
	case enums.OrderStatusInTransit:
		stampOnce(&order.ShippedAt)
	case enums.OrderStatusDelivered:
		stampOnce(&order.DeliveredAt)
	case enums.OrderStatusNotDelivered:
		stampOnce(&order.NotDeliveredAt)
	case enums.OrderStatusCanceled:
		stampOnce(&order.CanceledAt)
	}
}

func eventTypeFor(status enums.OrderStatus) enums.OutboxEventType {
	switch status {
	case enums.OrderStatusDelivered:
		return enums.EventOrderDelivered
	case enums.OrderStatusCanceled:
		return enums.EventOrderCanceled
	case enums.OrderStatusPaymentRejected:
		return enums.EventOrderPaymentRejected
	default:
		return enums.EventOrderStatusChanged
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
