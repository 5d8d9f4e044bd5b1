package repository

import (
	"context"

	"storefront-backend/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access. Orders are
// append-only; there is no update path.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts an order together with its line items.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByStripeSessionID retrieves the order created for a payment session,
// if one exists. Checkout confirmation uses this to stay idempotent.
func (r *GormOrderRepository) FindByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
