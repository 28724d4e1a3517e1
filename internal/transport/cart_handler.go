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

// AddToCartRequest represents the add-to-cart request payload
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// RemoveFromCartRequest optionally names one product to remove; an empty
// body clears the whole cart.
type RemoveFromCartRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
}

// UpdateQuantityRequest represents the quantity update payload
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.View)
		r.Post("/", h.Add)
		r.Delete("/", h.Remove)
		r.Put("/{id}", h.UpdateQuantity)
	})
}

// View returns the cart joined with live catalog data.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := h.cartService.View(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"cart_items": cart})
}

// Add puts one more unit of a product into the cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	items, err := h.cartService.Add(r.Context(), user.ID, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to add to cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "product added to cart successfully",
		"cart_items": items,
	})
}

// UpdateQuantity sets the quantity of one cart line; zero removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.cartService.SetQuantity(r.Context(), user.ID, productID, *req.Quantity)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found in cart")
			return
		}

		h.logger.Error("Failed to update cart quantity", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "product quantity updated successfully",
		"cart_items": items,
	})
}

// Remove deletes one product's line, or clears the cart when no product
// id is supplied.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// The body is optional: DELETE with no body clears the cart.
	var req RemoveFromCartRequest
	_ = middleware.DecodeAndValidate(r, &req)

	var productID *uuid.UUID
	if req.ProductID != "" {
		id, err := uuid.Parse(req.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		productID = &id
	}

	items, err := h.cartService.Remove(r.Context(), user.ID, productID)
	if err != nil {
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "product removed from cart successfully",
		"cart_items": items,
	})
}
