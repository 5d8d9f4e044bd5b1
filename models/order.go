package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable record of a completed purchase. The unique index
// on StripeSessionID means a duplicate checkout confirmation cannot create
// a second order for the same payment session.
type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	StripeSessionID string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"stripe_session_id"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// OrderItem snapshots one line of the cart at payment time: product
// reference, quantity and the unit price that was actually charged.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string    `gorm:"type:varchar(64);not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
}

// CheckoutProduct is one line item submitted to checkout session creation.
type CheckoutProduct struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Image    string  `json:"image"`
	Price    float64 `json:"price" binding:"required,gte=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// CreateCheckoutSessionRequest starts a payment for the given line items.
type CreateCheckoutSessionRequest struct {
	Products   []CheckoutProduct `json:"products" binding:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code"`
}

// CheckoutSuccessRequest confirms a completed payment session.
type CheckoutSuccessRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}
