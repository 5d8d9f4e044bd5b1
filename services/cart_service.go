package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService merges stored cart entries with live catalog data and
// applies the merge-on-add rule: the same product never appears twice in
// one cart.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// GetCart resolves each stored entry against the live catalog. Entries
// whose product has been deleted stay in storage but are dropped from the
// returned view.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	items, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			s.logger.Warn("skipping cart entry with malformed product id",
				zap.String("user_id", userID.String()),
				zap.String("product_id", item.ProductID),
			)
			continue
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{Product: product, Quantity: item.Quantity})
	}
	return lines, nil
}

// AddItem adds one unit of a product. An existing entry is incremented,
// never duplicated.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productID string) error {
	item, err := s.carts.FindByUserAndProduct(ctx, userID, productID)
	if err == nil {
		return s.carts.UpdateQuantity(ctx, item.ID, item.Quantity+1)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up cart entry: %w", err)
	}

	return s.carts.Create(ctx, &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	})
}

// UpdateQuantity sets an entry's quantity directly; zero removes the entry
// entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) error {
	item, err := s.carts.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to look up cart entry: %w", err)
	}

	if quantity == 0 {
		return s.carts.Delete(ctx, item.ID)
	}
	return s.carts.UpdateQuantity(ctx, item.ID, quantity)
}

// Remove deletes one product's entry, or empties the whole cart when
// productID is empty.
func (s *CartService) Remove(ctx context.Context, userID uuid.UUID, productID string) error {
	if productID == "" {
		return s.carts.DeleteByUser(ctx, userID)
	}
	return s.carts.DeleteByUserAndProduct(ctx, userID, productID)
}
