package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product reference in a user's cart. The composite unique
// index guarantees a single row per (user, product); adding the same
// product again increments the quantity instead of duplicating the row.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartLine is a cart entry joined with live catalog data, as returned to
// clients. Entries whose product no longer exists are dropped from this
// view, not from storage.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// AddToCartRequest adds one unit of a product to the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest sets an entry's quantity directly. Zero removes
// the entry.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// RemoveFromCartRequest removes one entry, or the whole cart when
// ProductID is empty.
type RemoveFromCartRequest struct {
	ProductID string `json:"product_id"`
}
