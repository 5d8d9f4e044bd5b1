package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/models"
	"storefront-backend/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const recommendedSampleSize = 4

// ProductService owns the catalog: CRUD, the featured-products read cache
// and the image lifecycle. Cache and image failures never fail the
// primary operation.
type ProductService struct {
	products repository.ProductRepository
	cache    repository.FeaturedCache
	images   ImageStore
	logger   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(products repository.ProductRepository, cache repository.FeaturedCache, images ImageStore, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		cache:    cache,
		images:   images,
		logger:   logger,
	}
}

// GetAll returns the full catalog.
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

// GetFeatured serves featured products from the cache when possible,
// falling back to the catalog and rewriting the cache on a miss.
func (s *ProductService) GetFeatured(ctx context.Context) ([]models.Product, error) {
	cached, hit, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("featured cache read failed", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	products, err := s.products.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}

	if err := s.cache.Set(ctx, products); err != nil {
		s.logger.Warn("featured cache write failed", zap.Error(err))
	}
	return products, nil
}

// GetRecommended returns a small random product sample.
func (s *ProductService) GetRecommended(ctx context.Context) ([]models.Product, error) {
	return s.products.Sample(ctx, recommendedSampleSize)
}

// GetByCategory returns the products in one category.
func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.FindByCategory(ctx, category)
}

// Create adds a catalog entry, uploading its image first when one is
// provided.
func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	imageURL := ""
	if req.Image != "" {
		url, err := s.images.Upload(ctx, req.Image)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		imageURL = url
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       imageURL,
		Category:    req.Category,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// ToggleFeatured flips a product's featured flag and rewrites the
// featured cache.
func (s *ProductService) ToggleFeatured(ctx context.Context, id string) (*models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product, err := s.products.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	product.IsFeatured = !product.IsFeatured
	if err := s.products.SetFeatured(ctx, objectID, product.IsFeatured); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.refreshFeaturedCache(ctx)
	return product, nil
}

// Delete removes a product, its stored image (best-effort) and rewrites
// the featured cache. Cart entries referencing the product are left
// behind; the cart view filters them out.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	product, err := s.products.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if product.Image != "" {
		if err := s.images.Delete(ctx, product.Image); err != nil {
			s.logger.Warn("failed to delete product image",
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
	}

	if err := s.products.Delete(ctx, objectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.refreshFeaturedCache(ctx)
	return nil
}

// refreshFeaturedCache rewrites the cache from the catalog. Failures are
// logged and swallowed; the cache is repopulated on the next read miss.
func (s *ProductService) refreshFeaturedCache(ctx context.Context) {
	products, err := s.products.FindFeatured(ctx)
	if err != nil {
		s.logger.Warn("featured cache refresh read failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, products); err != nil {
		s.logger.Warn("featured cache refresh write failed", zap.Error(err))
	}
}
