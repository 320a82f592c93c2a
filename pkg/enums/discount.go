package enums

import "fmt"

// PromotionDiscountType describes how a promotion reduces the price.
type PromotionDiscountType string

const (
	PromotionDiscountPercentage  PromotionDiscountType = "percentage"
	PromotionDiscountFixedAmount PromotionDiscountType = "fixed_amount"
	PromotionDiscountBuyNGetM    PromotionDiscountType = "buy_n_get_m"
)

var validPromotionDiscountTypes = []PromotionDiscountType{
	PromotionDiscountPercentage,
	PromotionDiscountFixedAmount,
	PromotionDiscountBuyNGetM,
}

// IsValid reports whether the value is a known PromotionDiscountType.
func (p PromotionDiscountType) IsValid() bool {
	for _, candidate := range validPromotionDiscountTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionDiscountType converts raw input into a PromotionDiscountType.
func ParsePromotionDiscountType(value string) (PromotionDiscountType, error) {
	for _, candidate := range validPromotionDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion discount type %q", value)
}

// CouponBundleType describes the bundle deal attached to a promotional code.
type CouponBundleType string

const (
	CouponBundleBuyOneGetOne   CouponBundleType = "buy_1_get_1"
	CouponBundleBuyTwoGetOne   CouponBundleType = "buy_2_get_1"
	CouponBundleBuyThreeGetOne CouponBundleType = "buy_3_get_1"
)

var validCouponBundleTypes = []CouponBundleType{
	CouponBundleBuyOneGetOne,
	CouponBundleBuyTwoGetOne,
	CouponBundleBuyThreeGetOne,
}

// IsValid reports whether the value is a known CouponBundleType.
func (c CouponBundleType) IsValid() bool {
	for _, candidate := range validCouponBundleTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponBundleType converts raw input into a CouponBundleType.
func ParseCouponBundleType(value string) (CouponBundleType, error) {
	for _, candidate := range validCouponBundleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon bundle type %q", value)
}
