package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/media"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationCount is the number of products returned by Recommend.
const RecommendationCount = 4

// CreateProductInput is the validated payload for product creation. The
// image itself arrives separately as a stream.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        float64
	Category     string
	CountInStock int
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	ListFeatured(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput, image io.Reader, filename string) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Recommend(ctx context.Context) ([]*domain.ProductSummary, error)
}

type productService struct {
	productRepo   repository.ProductRepository
	featuredCache *cache.FeaturedProducts
	uploader      media.Uploader
	logger        *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	featuredCache *cache.FeaturedProducts,
	uploader media.Uploader,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:   productRepo,
		featuredCache: featuredCache,
		uploader:      uploader,
		logger:        logger,
	}
}

// List returns the whole catalog.
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.FindAll(ctx)
}

// ListByCategory returns the products in one category.
func (s *productService) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.productRepo.FindByCategory(ctx, category)
}

// ListFeatured serves the featured list read-through: cache first, then
// the store, populating the cache on a miss.
func (s *productService) ListFeatured(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.featuredCache.Get(ctx)
	if err == nil {
		return products, nil
	}
	if err != cache.ErrCacheMiss {
		s.logger.Warn("Featured products cache read failed", zap.Error(err))
	}

	products, err = s.productRepo.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}

	if err := s.featuredCache.Set(ctx, products); err != nil {
		s.logger.Warn("Featured products cache write failed", zap.Error(err))
	}

	return products, nil
}

// Create uploads the product image first and only then writes the catalog
// record. If the record write fails the uploaded image is deleted again so
// no orphaned object remains.
func (s *productService) Create(ctx context.Context, input CreateProductInput, image io.Reader, filename string) (*domain.Product, error) {
	asset, err := s.uploader.Upload(ctx, image, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	now := time.Now()
	product := &domain.Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		ImageURL:      asset.URL,
		ImagePublicID: asset.PublicID,
		Category:      input.Category,
		CountInStock:  input.CountInStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if destroyErr := s.uploader.Destroy(ctx, asset.PublicID); destroyErr != nil {
			s.logger.Warn("Failed to delete orphaned product image",
				zap.String("public_id", asset.PublicID),
				zap.Error(destroyErr),
			)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Delete removes a product and best-effort deletes its stored image. An
// image delete failure is logged but does not fail the operation.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.ImagePublicID != "" {
		if err := s.uploader.Destroy(ctx, product.ImagePublicID); err != nil {
			s.logger.Warn("Failed to delete product image",
				zap.String("product_id", id.String()),
				zap.String("public_id", product.ImagePublicID),
				zap.Error(err),
			)
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return product, nil
}

// ToggleFeatured flips the featured flag and repopulates the cache so the
// featured list never serves the pre-toggle state.
func (s *productService) ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.productRepo.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		return nil, err
	}

	featured, err := s.productRepo.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload featured products: %w", err)
	}
	if err := s.featuredCache.Set(ctx, featured); err != nil {
		return nil, fmt.Errorf("failed to refresh featured products cache: %w", err)
	}

	return updated, nil
}

// Recommend returns a uniform random sample of products projected to
// display fields.
func (s *productService) Recommend(ctx context.Context) ([]*domain.ProductSummary, error) {
	return s.productRepo.Sample(ctx, RecommendationCount)
}
