package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CouponHandler handles HTTP requests for coupon operations
type CouponHandler struct {
	couponService service.CouponService
	logger        *zap.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService service.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		logger:        logger,
	}
}

// RegisterRoutes registers all coupon routes
func (h *CouponHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/coupons", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetActive)
		r.Get("/validate", h.Validate)
	})
}

// GetActive returns the caller's active coupon, or null.
func (h *CouponHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	coupon, err := h.couponService.GetActive(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to load coupon", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "coupon fetched successfully",
		"coupon":  coupon,
	})
}

// Validate checks the coupon code supplied in the query string against the
// caller's active coupon. An expired coupon is deactivated and reported as
// 410; a second attempt then sees 404.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid coupon code")
		return
	}

	validated, err := h.couponService.Validate(r.Context(), user.ID, code)
	if err != nil {
		switch err {
		case repository.ErrCouponNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "coupon not found or inactive")
		case service.ErrCouponExpired:
			middleware.RespondWithError(w, http.StatusGone, "coupon expired")
		default:
			h.logger.Error("Failed to validate coupon", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "coupon is valid",
		"code":     validated.Code,
		"discount": validated.DiscountPercentage,
	})
}
