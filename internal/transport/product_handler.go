package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadSize caps multipart product-create requests.
const maxUploadSize = 16 << 20 // 16 MiB

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/products", func(r chi.Router) {
		// Public routes
		r.Get("/featured", h.ListFeatured)
		r.Get("/category/{category}", h.ListByCategory)
		r.Get("/recommendations", h.Recommendations)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminOnly)
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Patch("/{id}", h.ToggleFeatured)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns the whole catalog.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// ListFeatured returns the cached featured list.
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListFeatured(r.Context())
	if err != nil {
		h.logger.Error("Failed to list featured products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// ListByCategory filters the catalog by the category path parameter.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.productService.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list products by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Recommendations returns a random product sample.
func (h *ProductHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.Recommend(r.Context())
	if err != nil {
		h.logger.Error("Failed to load recommendations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Create accepts a multipart form: product fields plus an image file. The
// image is required.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}

	countInStock, err := strconv.Atoi(r.FormValue("count_in_stock"))
	if err != nil || countInStock < 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "count_in_stock must be a non-negative integer")
		return
	}

	input := service.CreateProductInput{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Price:        price,
		Category:     r.FormValue("category"),
		CountInStock: countInStock,
	}
	if input.Name == "" || input.Description == "" || input.Category == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "name, description and category are required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	product, err := h.productService.Create(r.Context(), input, file, header.Filename)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "product created successfully",
		"product": product,
	})
}

// ToggleFeatured flips a product's featured flag.
func (h *ProductHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.ToggleFeatured(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to toggle featured flag", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "product updated successfully",
		"product": product,
	})
}

// Delete removes a product and best-effort deletes its stored image.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "product deleted successfully",
		"product": product,
	})
}
