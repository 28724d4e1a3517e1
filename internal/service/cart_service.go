package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// CartService defines the interface for cart business logic
type CartService interface {
	View(ctx context.Context, userID uuid.UUID) ([]*domain.CartProduct, error)
	Add(ctx context.Context, userID, productID uuid.UUID) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) ([]domain.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, productID *uuid.UUID) ([]domain.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// View joins the user's cart lines against live catalog data. Lines whose
// product has since been deleted are dropped from the view without
// mutating the stored cart. The quantity falls back to 1 if a product
// somehow has no matching line.
func (s *cartService) View(ctx context.Context, userID uuid.UUID) ([]*domain.CartProduct, error) {
	items, err := s.cartRepo.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	quantities := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] = item.Quantity
	}

	view := make([]*domain.CartProduct, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to load cart product: %w", err)
		}

		quantity, ok := quantities[product.ID]
		if !ok {
			quantity = 1
		}

		view = append(view, &domain.CartProduct{Product: *product, Quantity: quantity})
	}

	return view, nil
}

// Add puts one more unit of the product into the cart.
func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID) ([]domain.CartItem, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.cartRepo.Add(ctx, userID, productID)
}

// SetQuantity sets the quantity of an existing cart line; zero removes it.
func (s *cartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) ([]domain.CartItem, error) {
	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.cartRepo.Items(ctx, userID)
}

// Remove deletes one product's line, or the entire cart when productID is
// nil.
func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, productID *uuid.UUID) ([]domain.CartItem, error) {
	if productID == nil {
		if err := s.cartRepo.Clear(ctx, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.Remove(ctx, userID, *productID); err != nil {
			return nil, err
		}
	}

	return s.cartRepo.Items(ctx, userID)
}

// Clear empties the cart unconditionally.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
