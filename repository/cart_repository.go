package repository

import (
	"context"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the interface for cart entry data access.
type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteByUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) error
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns every cart entry stored for a user, including entries
// whose product may no longer exist in the catalog.
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindByUserAndProduct returns the single entry for (user, product).
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new cart entry.
func (r *GormCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets an entry's quantity directly.
func (r *GormCartRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).
		Error
}

// Delete removes a single cart entry by primary key.
func (r *GormCartRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error
}

// DeleteByUser empties a user's cart.
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", userID).Error
}

// DeleteByUserAndProduct removes one product's entry from a user's cart.
func (r *GormCartRepository) DeleteByUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "user_id = ? AND product_id = ?", userID, productID).
		Error
}
