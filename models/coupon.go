package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a per-user percentage discount. The unique index on UserID
// makes "at most one coupon per user" structural: loyalty issuance
// reactivates the existing row instead of inserting a second one.
type Coupon struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code               string    `gorm:"type:varchar(64);not null;index" json:"code"`
	DiscountPercentage float64   `gorm:"not null" json:"discount_percentage"`
	ExpirationDate     time.Time `gorm:"not null" json:"expiration_date"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidateCouponRequest is the payload for checking a coupon code.
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCouponResponse is returned for a valid coupon.
type ValidateCouponResponse struct {
	Message            string  `json:"message"`
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discount_percentage"`
}
