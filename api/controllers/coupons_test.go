package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/velaria-store/velaria-backend/internal/discounts"
	pkgerrors "github.com/velaria-store/velaria-backend/pkg/errors"
)

type stubDiscountsService struct {
	validateFn func(ctx context.Context, input discounts.ValidateCodeInput) (*discounts.CodeValidation, error)
	applyFn    func(ctx context.Context, input discounts.ApplyCodeInput) (*discounts.ApplyCodeResult, error)
}

func (s stubDiscountsService) ValidateCode(ctx context.Context, input discounts.ValidateCodeInput) (*discounts.CodeValidation, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, input)
	}
	return &discounts.CodeValidation{}, nil
}

func (s stubDiscountsService) ApplyCode(ctx context.Context, input discounts.ApplyCodeInput) (*discounts.ApplyCodeResult, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, input)
	}
	return &discounts.ApplyCodeResult{}, nil
}

func TestCouponValidate(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc := stubDiscountsService{
		validateFn: func(ctx context.Context, input discounts.ValidateCodeInput) (*discounts.CodeValidation, error) {
			if input.Code != "WELCOME15" {
				t.Fatalf("unexpected code %q", input.Code)
			}
			if input.UserID != userID {
				t.Fatalf("unexpected user %s", input.UserID)
			}
			if len(input.ProductIDs) != 1 || input.ProductIDs[0] != productID {
				t.Fatalf("unexpected products %v", input.ProductIDs)
			}
			return &discounts.CodeValidation{Code: input.Code, Usable: true}, nil
		},
	}

	body := `{"code":"WELCOME15","product_ids":["` + productID.String() + `"]}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CouponValidate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data discounts.CodeValidation `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Usable {
		t.Fatal("expected usable code")
	}
}

func TestCouponValidateRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"WELCOME15"}`))
	resp := httptest.NewRecorder()
	CouponValidate(stubDiscountsService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCouponValidateRejectsMissingCode(t *testing.T) {
	req := withActor(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), uuid.New())
	resp := httptest.NewRecorder()
	CouponValidate(stubDiscountsService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCouponApply(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc := stubDiscountsService{
		applyFn: func(ctx context.Context, input discounts.ApplyCodeInput) (*discounts.ApplyCodeResult, error) {
			if input.SubtotalCents != 10000 {
				t.Fatalf("unexpected subtotal %d", input.SubtotalCents)
			}
			if input.OrderID == nil || *input.OrderID != orderID {
				t.Fatal("order id not propagated")
			}
			return &discounts.ApplyCodeResult{Code: input.Code, DiscountCents: 1500}, nil
		},
	}

	body := `{"code":"WELCOME15","order_id":"` + orderID.String() + `","subtotal_cents":10000}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CouponApply(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data discounts.ApplyCodeResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DiscountCents != 1500 {
		t.Fatalf("unexpected discount %d", envelope.Data.DiscountCents)
	}
}

func TestCouponApplyBlockedIsForbidden(t *testing.T) {
	svc := stubDiscountsService{
		applyFn: func(ctx context.Context, input discounts.ApplyCodeInput) (*discounts.ApplyCodeResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "promotional code cannot be combined with active promotions").
				WithDetails(discounts.ExclusivityResult{Blocked: true})
		},
	}
	req := withActor(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"WELCOME15","subtotal_cents":5000}`)), uuid.New())
	resp := httptest.NewRecorder()
	CouponApply(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Details discounts.ExclusivityResult `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Error.Details.Blocked {
		t.Fatal("expected exclusivity details in error payload")
	}
}
