package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeCouponService scripts per-test coupon behavior.
type fakeCouponService struct {
	getActive   func(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error)
	validate    func(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error)
	issueReward func(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error)
}

func (f *fakeCouponService) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	return f.getActive(ctx, userID)
}

func (f *fakeCouponService) Validate(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error) {
	return f.validate(ctx, userID, code)
}

func (f *fakeCouponService) IssueReward(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	return f.issueReward(ctx, userID)
}

// injectUser stands in for the auth middleware in handler tests.
func injectUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user)))
		})
	}
}

func newCouponTestRouter(svc service.CouponService, user *domain.User) chi.Router {
	handler := NewCouponHandler(svc, zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router, injectUser(user))
	return router
}

func TestCouponValidate_StatusMapping(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}

	tests := []struct {
		name     string
		path     string
		validate func(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error)
		wantCode int
	}{
		{
			name: "valid coupon",
			path: "/api/v1/coupons/validate?code=GIFTABC123",
			validate: func(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error) {
				return &service.ValidatedCoupon{Code: "GIFTABC123", DiscountPercentage: 10}, nil
			},
			wantCode: http.StatusOK,
		},
		{
			name: "unknown coupon",
			path: "/api/v1/coupons/validate?code=NOPE",
			validate: func(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error) {
				return nil, repository.ErrCouponNotFound
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "expired coupon",
			path: "/api/v1/coupons/validate?code=GIFTOLD999",
			validate: func(ctx context.Context, userID uuid.UUID, code string) (*service.ValidatedCoupon, error) {
				return nil, service.ErrCouponExpired
			},
			wantCode: http.StatusGone,
		},
		{
			name:     "missing code",
			path:     "/api/v1/coupons/validate",
			validate: nil,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCouponTestRouter(&fakeCouponService{validate: tt.validate}, user)

			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestCouponGetActive_NoCouponReturnsNull(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}
	router := newCouponTestRouter(&fakeCouponService{
		getActive: func(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
			return nil, nil
		},
	}, user)

	req := httptest.NewRequest("GET", "/api/v1/coupons/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
