package discounts

import (
	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/pkg/enums"
)

// PromotionRef names the promotion that caused a block.
type PromotionRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ExclusivityResult is the outcome of the liquidation/promotion/coupon
// mutual-exclusion check over a set of products.
type ExclusivityResult struct {
	Blocked             bool          `json:"blocked"`
	Reason              string        `json:"reason,omitempty"`
	BlockingPromotion   *PromotionRef `json:"blocking_promotion,omitempty"`
	BlockingLiquidation []string      `json:"blocking_liquidation,omitempty"`
}

// ValidateCodeInput carries the advisory, pre-checkout coupon check.
type ValidateCodeInput struct {
	Code       string
	UserID     uuid.UUID
	ProductIDs []uuid.UUID
}

// CodeValidation is the advisory result. A blocked code is still reported
// usable; the warning tells the customer it will not apply to the products
// in the cart. Only window, cap and allowlist failures turn Usable off.
type CodeValidation struct {
	Code            string                  `json:"code"`
	Usable          bool                    `json:"usable"`
	Reason          string                  `json:"reason,omitempty"`
	Warning         string                  `json:"warning,omitempty"`
	DiscountPercent *int                    `json:"discount_percent,omitempty"`
	BundleType      *enums.CouponBundleType `json:"bundle_type,omitempty"`
}

// ApplyCodeInput carries the authoritative coupon application at checkout
// commit.
type ApplyCodeInput struct {
	Code          string
	UserID        uuid.UUID
	OrderID       *uuid.UUID
	ProductIDs    []uuid.UUID
	SubtotalCents int
}

// ApplyCodeResult reports the committed redemption.
type ApplyCodeResult struct {
	CodeID          uuid.UUID               `json:"code_id"`
	Code            string                  `json:"code"`
	DiscountCents   int                     `json:"discount_cents"`
	DiscountPercent *int                    `json:"discount_percent,omitempty"`
	BundleType      *enums.CouponBundleType `json:"bundle_type,omitempty"`
}

// CouponRedeemedEvent is emitted when an enforcement-path application lands.
type CouponRedeemedEvent struct {
	CodeID        uuid.UUID  `json:"code_id"`
	Code          string     `json:"code"`
	UserID        uuid.UUID  `json:"user_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	DiscountCents int        `json:"discount_cents"`
}
