package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AnalyticsHandler handles HTTP requests for the admin analytics view
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes registers all analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminOnly)
		r.Get("/", h.GetOverview)
	})
}

// GetOverview returns store-wide counts plus the last week of daily sales.
func (h *AnalyticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analyticsService.Overview(r.Context())
	if err != nil {
		h.logger.Error("Failed to build analytics overview", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, overview)
}
