package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the featured products blob is not cached.
var ErrCacheMiss = errors.New("cache miss")

const featuredProductsKey = "featured_products"

// FeaturedProducts is the read-through cache for the storefront's featured
// product list. Entries have no TTL; they are replaced explicitly whenever
// an admin toggles a featured flag.
type FeaturedProducts struct {
	client *redis.Client
}

// NewFeaturedProducts creates a featured-products cache over the given client.
func NewFeaturedProducts(client *redis.Client) *FeaturedProducts {
	return &FeaturedProducts{client: client}
}

// Get returns the cached featured list, or ErrCacheMiss.
func (c *FeaturedProducts) Get(ctx context.Context) ([]*domain.Product, error) {
	blob, err := c.client.Get(ctx, featuredProductsKey).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read featured products cache: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal([]byte(blob), &products); err != nil {
		return nil, fmt.Errorf("failed to decode featured products cache: %w", err)
	}

	return products, nil
}

// Set replaces the cached featured list.
func (c *FeaturedProducts) Set(ctx context.Context, products []*domain.Product) error {
	blob, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode featured products: %w", err)
	}

	if err := c.client.Set(ctx, featuredProductsKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to write featured products cache: %w", err)
	}

	return nil
}
