package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutProduct is one client-requested checkout line.
type CheckoutProduct struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateCheckoutSessionRequest represents the checkout creation payload.
type CreateCheckoutSessionRequest struct {
	Products   []CheckoutProduct `json:"products" validate:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code" validate:"omitempty"`
}

// CheckoutSuccessRequest is the payment gateway callback payload relayed
// by the frontend after a completed payment.
type CheckoutSuccessRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// PaymentHandler handles HTTP requests for the checkout flow
type PaymentHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(checkoutService service.CheckoutService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Post("/checkout-success", h.CheckoutSuccess)
	})
}

// CreateCheckoutSession prices the requested lines and opens a gateway
// order for the caller to pay.
func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCheckoutSessionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid or empty products array")
		return
	}

	lines := make([]service.CheckoutLine, 0, len(req.Products))
	for _, p := range req.Products {
		productID, err := uuid.Parse(p.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		lines = append(lines, service.CheckoutLine{ProductID: productID, Quantity: p.Quantity})
	}

	session, err := h.checkoutService.CreateSession(r.Context(), user.ID, lines, req.CouponCode)
	if err != nil {
		switch err {
		case service.ErrEmptyCheckout:
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid or empty products array")
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown product in checkout")
		default:
			h.logger.Error("Failed to create checkout session", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, session)
}

// CheckoutSuccess verifies the gateway callback and records the order.
func (h *PaymentHandler) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	var req CheckoutSuccessRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := h.checkoutService.ConfirmSession(r.Context(), req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		switch err {
		case service.ErrInvalidSignature:
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment signature")
		case repository.ErrOrderAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "order already recorded for this payment")
		default:
			h.logger.Error("Failed to confirm checkout", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.Info("Order recorded", zap.String("order_id", orderID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "payment successful, order created, and coupon deactivated if used",
		"order_id": orderID,
	})
}
