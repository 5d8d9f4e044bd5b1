package repository

import (
	"context"
	"encoding/json"

	"storefront-backend/models"

	"github.com/redis/go-redis/v9"
)

const featuredProductsKey = "featured_products"

// FeaturedCache is the denormalized read cache for featured products. It
// carries no TTL; it is rewritten explicitly whenever a featured flag is
// toggled or a product is deleted.
type FeaturedCache interface {
	Get(ctx context.Context) ([]models.Product, bool, error)
	Set(ctx context.Context, products []models.Product) error
}

// RedisFeaturedCache implements FeaturedCache.
type RedisFeaturedCache struct {
	client *redis.Client
}

// NewRedisFeaturedCache creates a new RedisFeaturedCache.
func NewRedisFeaturedCache(client *redis.Client) FeaturedCache {
	return &RedisFeaturedCache{client: client}
}

// Get returns the cached featured products; the second return value is
// false on a cache miss.
func (c *RedisFeaturedCache) Get(ctx context.Context) ([]models.Product, bool, error) {
	data, err := c.client.Get(ctx, featuredProductsKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

// Set replaces the cached featured products.
func (c *RedisFeaturedCache) Set(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, featuredProductsKey, data, 0).Err()
}
