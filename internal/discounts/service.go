package discounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/logger"
	"github.com/velaria-store/velaria-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the coupon operations. ValidateCode is advisory;
// ApplyCode is the authoritative gate at checkout commit.
type Service interface {
	ValidateCode(ctx context.Context, input ValidateCodeInput) (*CodeValidation, error)
	ApplyCode(ctx context.Context, input ApplyCodeInput) (*ApplyCodeResult, error)
}

type service struct {
	repo     Repository
	resolver *Resolver
	tx       txRunner
	outbox   outboxPublisher
	logg     *logger.Logger
}

// NewService builds the coupon service. Logger is optional.
func NewService(repo Repository, resolver *Resolver, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("exclusivity resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:     repo,
		resolver: resolver,
		tx:       tx,
		outbox:   publisher,
		logg:     logg,
	}, nil
}

var nowFunc = func() time.Time { return time.Now().UTC() }

// CanonicalCode upper-cases and trims a customer-entered code.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) ValidateCode(ctx context.Context, input ValidateCodeInput) (*CodeValidation, error) {
	canonical := CanonicalCode(input.Code)
	if canonical == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotional code required")
	}

	record, err := s.repo.FindCodeByValue(ctx, canonical)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotional code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotional code")
	}

	result := &CodeValidation{
		Code:            record.Code,
		Usable:          true,
		DiscountPercent: record.DiscountPercent,
		BundleType:      record.BundleType,
	}

	if reason := codeUnusableReason(record, input.UserID); reason != "" {
		result.Usable = false
		result.Reason = reason
		return result, nil
	}
	if input.UserID != uuid.Nil && record.MaxUsesPerUser > 0 {
		used, err := s.repo.CountRedemptions(ctx, record.ID, input.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count redemptions")
		}
		if used >= int64(record.MaxUsesPerUser) {
			result.Usable = false
			result.Reason = "per-user usage limit reached"
			return result, nil
		}
	}

	// Advisory exclusivity check: a block keeps the code usable but warns
	// that it will not apply to the blocked products.
	exclusivity, err := s.resolver.ResolveExclusivity(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}
	if exclusivity.Blocked {
		result.Warning = exclusivity.Reason
	}
	return result, nil
}

func (s *service) ApplyCode(ctx context.Context, input ApplyCodeInput) (*ApplyCodeResult, error) {
	canonical := CanonicalCode(input.Code)
	if canonical == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotional code required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SubtotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}

	// Enforcement path: a block rejects the application outright. The
	// advisory check cannot be trusted to have run.
	exclusivity, err := s.resolver.ResolveExclusivity(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}
	if exclusivity.Blocked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, exclusivity.Reason).WithDetails(exclusivity)
	}

	var result *ApplyCodeResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindCodeByValue(ctx, canonical)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "promotional code not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotional code")
		}
		if reason := codeUnusableReason(record, input.UserID); reason != "" {
			return pkgerrors.New(pkgerrors.CodeForbidden, reason)
		}
		rows, err := repo.IncrementCodeUsage(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment code usage")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeForbidden, "promotional code usage limit reached")
		}

		// The increment's row lock on the code serializes concurrent
		// applications, so this count always sees a rival redemption that
		// committed first. Failing here rolls the increment back.
		if record.MaxUsesPerUser > 0 {
			used, err := repo.CountRedemptions(ctx, record.ID, input.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count redemptions")
			}
			if used >= int64(record.MaxUsesPerUser) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "per-user usage limit reached")
			}
		}

		redemption := &models.CouponRedemption{
			CodeID:  record.ID,
			UserID:  input.UserID,
			OrderID: input.OrderID,
		}
		if err := repo.CreateRedemption(ctx, redemption); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record redemption")
		}

		discountCents := percentOf(input.SubtotalCents, record.DiscountPercent)
		result = &ApplyCodeResult{
			CodeID:          record.ID,
			Code:            record.Code,
			DiscountCents:   discountCents,
			DiscountPercent: record.DiscountPercent,
			BundleType:      record.BundleType,
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventCouponRedeemed,
			AggregateType: enums.AggregateCoupon,
			AggregateID:   record.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Data: CouponRedeemedEvent{
				CodeID:        record.ID,
				Code:          record.Code,
				UserID:        input.UserID,
				OrderID:       input.OrderID,
				DiscountCents: discountCents,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil && s.logg != nil {
			s.logg.Error(ctx, "queue coupon event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// codeUnusableReason checks the flags a code carries on its own: active
// flag, validity window, global cap and allowlist. Empty means usable.
func codeUnusableReason(record *models.PromotionalCode, userID uuid.UUID) string {
	now := nowFunc()
	if !record.IsActive {
		return "promotional code is inactive"
	}
	if record.StartsAt != nil && now.Before(*record.StartsAt) {
		return "promotional code is not yet valid"
	}
	if record.EndsAt != nil && now.After(*record.EndsAt) {
		return "promotional code has expired"
	}
	if record.MaxUses > 0 && record.UsesCount >= record.MaxUses {
		return "promotional code usage limit reached"
	}
	if len(record.AllowedUserIDs) > 0 {
		allowed := false
		for _, candidate := range record.AllowedUserIDs {
			if candidate == userID.String() {
				allowed = true
				break
			}
		}
		if !allowed {
			return "promotional code is not available for this account"
		}
	}
	return ""
}

// percentOf computes percent of amount in cents, rounding half away from
// zero.
func percentOf(amountCents int, percent *int) int {
	if percent == nil || *percent <= 0 || amountCents <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(amountCents)).
		Mul(decimal.NewFromInt(int64(*percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart())
}
