package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/repository"
)

// SalesWindowDays is the length of the daily sales series.
const SalesWindowDays = 7

// AnalyticsOverview aggregates storefront counts plus the trailing daily
// sales series.
type AnalyticsOverview struct {
	Users        int64                   `json:"users"`
	Products     int64                   `json:"products"`
	TotalSales   int64                   `json:"total_sales"`
	TotalRevenue float64                 `json:"total_revenue"`
	DailySales   []repository.DailySales `json:"daily_sales"`
}

// AnalyticsService defines the interface for sales analytics
type AnalyticsService interface {
	Overview(ctx context.Context) (*AnalyticsOverview, error)
}

type analyticsService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	now         func() time.Time
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) AnalyticsService {
	return &analyticsService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// Overview returns the aggregate counts and the last seven days of sales.
func (s *analyticsService) Overview(ctx context.Context) (*AnalyticsOverview, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totals, err := s.orderRepo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	end := s.now()
	start := end.AddDate(0, 0, -(SalesWindowDays - 1))
	daily, err := s.orderRepo.DailySales(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily sales: %w", err)
	}

	return &AnalyticsOverview{
		Users:        users,
		Products:     products,
		TotalSales:   totals.TotalSales,
		TotalRevenue: totals.TotalRevenue,
		DailySales:   daily,
	}, nil
}
