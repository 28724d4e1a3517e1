package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/gateway"
	"storefront/internal/media"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	dbService *database.Service,
	redisClient *redis.Client,
	paymentGateway gateway.Client,
	uploader media.Uploader,
) *Server {
	db := dbService.DB()

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, !cfg.Server.IsProduction()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", healthHandler(dbService, redisClient))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(redisClient)
	featuredCache := cache.NewFeaturedProducts(redisClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)
	productService := service.NewProductService(productRepo, featuredCache, uploader, logger)
	cartService := service.NewCartService(cartRepo, productRepo)
	couponService := service.NewCouponService(couponRepo)
	checkoutService := service.NewCheckoutService(productRepo, couponRepo, orderRepo, couponService, paymentGateway, logger)
	analyticsService := service.NewAnalyticsService(userRepo, productRepo, orderRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, cfg.JWT, cfg.Server.IsProduction(), logger)
	productHandler := transport.NewProductHandler(productService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	couponHandler := transport.NewCouponHandler(couponService, logger)
	paymentHandler := transport.NewPaymentHandler(checkoutService, logger)
	analyticsHandler := transport.NewAnalyticsHandler(analyticsService, logger)

	// Create shared middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.AccessSecret, userRepo, logger)
	adminOnly := custommiddleware.RequireAdmin(logger)
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit:auth",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, authMiddleware, authRateLimit)
	productHandler.RegisterRoutes(router, authMiddleware, adminOnly)
	cartHandler.RegisterRoutes(router, authMiddleware)
	couponHandler.RegisterRoutes(router, authMiddleware)
	paymentHandler.RegisterRoutes(router, authMiddleware)
	analyticsHandler.RegisterRoutes(router, authMiddleware, adminOnly)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     dbService,
		redis:  redisClient,
	}

	return server
}

func healthHandler(dbService *database.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := dbService.Health(r.Context())
		redisHealth := cache.Health(r.Context(), redisClient)

		status := http.StatusOK
		if dbHealth["status"] != "up" || redisHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"database": dbHealth,
			"redis":    redisHealth,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
