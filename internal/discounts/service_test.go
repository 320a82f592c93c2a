package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velaria-store/velaria-backend/pkg/db/models"
	"github.com/velaria-store/velaria-backend/pkg/enums"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
	"github.com/velaria-store/velaria-backend/pkg/outbox"
)

type stubCouponOutbox struct {
	event  outbox.DomainEvent
	called bool
	err    error
}

func (s *stubCouponOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.called = true
	s.event = event
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newCouponService(t *testing.T, repo *stubDiscountsRepo, publisher *stubCouponOutbox) Service {
	t.Helper()
	resolver, err := NewResolver(repo)
	if err != nil {
		t.Fatalf("resolver constructor failed: %v", err)
	}
	svc, err := NewService(repo, resolver, stubTx{}, publisher, nil)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func percent(v int) *int { return &v }

func validCode(code string) *models.PromotionalCode {
	return &models.PromotionalCode{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: percent(15),
		IsActive:        true,
	}
}

func TestValidateCodeCanonicalizesInput(t *testing.T) {
	repo := &stubDiscountsRepo{code: validCode("WELCOME15")}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	result, err := svc.ValidateCode(context.Background(), ValidateCodeInput{
		Code:   "  welcome15 ",
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !result.Usable {
		t.Fatalf("expected usable, got reason %q", result.Reason)
	}
	if result.Code != "WELCOME15" {
		t.Fatalf("unexpected code %q", result.Code)
	}
}

func TestValidateCodeUnknownCode(t *testing.T) {
	svc := newCouponService(t, &stubDiscountsRepo{}, &stubCouponOutbox{})

	_, err := svc.ValidateCode(context.Background(), ValidateCodeInput{Code: "NOPE", UserID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestValidateCodeExpiredWindow(t *testing.T) {
	code := validCode("SPRING")
	past := time.Now().UTC().Add(-time.Hour)
	code.EndsAt = &past
	repo := &stubDiscountsRepo{code: code}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	result, err := svc.ValidateCode(context.Background(), ValidateCodeInput{Code: "SPRING", UserID: uuid.New()})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Usable {
		t.Fatal("expired code must not be usable")
	}
	if result.Reason == "" {
		t.Fatal("expected a reason")
	}
}

func TestValidateCodeBlockedStaysUsableWithWarning(t *testing.T) {
	productID := uuid.New()
	repo := &stubDiscountsRepo{
		code: validCode("VIP10"),
		products: []models.Product{{
			ID:                 productID,
			Name:               "Clearance Jacket",
			InLiquidation:      true,
			LiquidationPercent: 25,
		}},
	}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	result, err := svc.ValidateCode(context.Background(), ValidateCodeInput{
		Code:       "VIP10",
		UserID:     uuid.New(),
		ProductIDs: []uuid.UUID{productID},
	})
	if err != nil {
		t.Fatalf("advisory check must not reject, got %v", err)
	}
	if !result.Usable {
		t.Fatal("blocked code stays usable on the advisory path")
	}
	if result.Warning == "" {
		t.Fatal("expected warning about the block")
	}
}

func TestValidateCodeAllowlist(t *testing.T) {
	allowed := uuid.New()
	code := validCode("FRIENDS")
	code.AllowedUserIDs = []string{allowed.String()}
	repo := &stubDiscountsRepo{code: code}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	result, err := svc.ValidateCode(context.Background(), ValidateCodeInput{Code: "FRIENDS", UserID: uuid.New()})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Usable {
		t.Fatal("non-allowlisted user must not use the code")
	}

	result, err = svc.ValidateCode(context.Background(), ValidateCodeInput{Code: "FRIENDS", UserID: allowed})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !result.Usable {
		t.Fatalf("allowlisted user rejected: %q", result.Reason)
	}
}

func TestApplyCodeBlockedIsForbidden(t *testing.T) {
	productID := uuid.New()
	repo := &stubDiscountsRepo{
		code: validCode("VIP10"),
		products: []models.Product{{
			ID:                 productID,
			Name:               "Clearance Jacket",
			InLiquidation:      true,
			LiquidationPercent: 25,
		}},
		incrementRows: 1,
	}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	_, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "VIP10",
		UserID:        uuid.New(),
		ProductIDs:    []uuid.UUID{productID},
		SubtotalCents: 10000,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if repo.incrementCalls != 0 {
		t.Fatal("no usage increment expected on a blocked application")
	}
}

func TestApplyCodeHappyPath(t *testing.T) {
	orderID := uuid.New()
	repo := &stubDiscountsRepo{code: validCode("WELCOME15"), incrementRows: 1}
	publisher := &stubCouponOutbox{}
	svc := newCouponService(t, repo, publisher)

	userID := uuid.New()
	result, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "welcome15",
		UserID:        userID,
		OrderID:       &orderID,
		SubtotalCents: 10000,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	// 15% of 10000 cents.
	if result.DiscountCents != 1500 {
		t.Fatalf("expected 1500 got %d", result.DiscountCents)
	}
	if repo.incrementCalls != 1 {
		t.Fatalf("expected one usage increment got %d", repo.incrementCalls)
	}
	if repo.redemption == nil || repo.redemption.UserID != userID {
		t.Fatal("redemption not recorded")
	}
	if !publisher.called || publisher.event.EventType != enums.EventCouponRedeemed {
		t.Fatal("expected coupon redeemed event")
	}
}

func TestApplyCodeRoundsHalfAwayFromZero(t *testing.T) {
	code := validCode("ODD")
	code.DiscountPercent = percent(15)
	repo := &stubDiscountsRepo{code: code, incrementRows: 1}
	svc := newCouponService(t, repo, &stubCouponOutbox{})

	// 15% of 30 cents = 4.5, rounds to 5.
	result, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "ODD",
		UserID:        uuid.New(),
		SubtotalCents: 30,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.DiscountCents != 5 {
		t.Fatalf("expected 5 got %d", result.DiscountCents)
	}
}

func TestApplyCodeGlobalCapRace(t *testing.T) {
	repo := &stubDiscountsRepo{code: validCode("LIMITED"), incrementRows: 0}
	publisher := &stubCouponOutbox{}
	svc := newCouponService(t, repo, publisher)

	_, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "LIMITED",
		UserID:        uuid.New(),
		SubtotalCents: 5000,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if repo.redemption != nil {
		t.Fatal("no redemption expected when the cap was reached")
	}
	if publisher.called {
		t.Fatal("no event expected when the cap was reached")
	}
}

func TestApplyCodePerUserCap(t *testing.T) {
	code := validCode("ONCE")
	code.MaxUsesPerUser = 1
	repo := &stubDiscountsRepo{code: code, incrementRows: 1, redemptionsCount: 1}
	publisher := &stubCouponOutbox{}
	svc := newCouponService(t, repo, publisher)

	_, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "ONCE",
		UserID:        uuid.New(),
		SubtotalCents: 5000,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if repo.redemption != nil {
		t.Fatal("no redemption expected past the per-user cap")
	}
	if publisher.called {
		t.Fatal("no event expected past the per-user cap")
	}
}

func TestApplyCodePerUserCapRace(t *testing.T) {
	// A rival redemption by the same user commits between the code load
	// and the usage increment. The count runs after the increment has
	// taken the row lock, so it must see the rival and reject.
	code := validCode("ONCE")
	code.MaxUsesPerUser = 1
	repo := &stubDiscountsRepo{code: code, incrementRows: 1}
	repo.countFn = func() (int64, error) {
		if repo.incrementCalls == 0 {
			return 0, nil
		}
		return 1, nil
	}
	publisher := &stubCouponOutbox{}
	svc := newCouponService(t, repo, publisher)

	_, err := svc.ApplyCode(context.Background(), ApplyCodeInput{
		Code:          "ONCE",
		UserID:        uuid.New(),
		SubtotalCents: 5000,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if repo.incrementCalls != 1 {
		t.Fatalf("expected the count to run after the increment, got %d increments", repo.incrementCalls)
	}
	if repo.redemption != nil {
		t.Fatal("no second redemption expected for the same user")
	}
	if publisher.called {
		t.Fatal("no event expected when the per-user cap was exceeded")
	}
}
