package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// LoyaltyDiscountPercentage is the fixed discount on loyalty coupons.
	LoyaltyDiscountPercentage = 10
	// LoyaltyCouponTTL is how long a freshly issued or reactivated
	// loyalty coupon stays valid.
	LoyaltyCouponTTL = 30 * 24 * time.Hour
)

const couponCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CouponService enforces the single-active-coupon-per-user rule and owns
// the discount arithmetic. Coupon expiry is checked lazily at validation
// time; there is no background sweep.
type CouponService struct {
	coupons repository.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(coupons repository.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// GetActiveCoupon returns the user's active coupon, or nil when they hold
// none.
func (s *CouponService) GetActiveCoupon(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.coupons.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	return coupon, nil
}

// Validate checks a coupon code for the given owner. A coupon past its
// expiration date is deactivated as a side effect and reported as
// expired; validating it again keeps returning ErrCouponExpired until the
// row is reactivated.
func (s *CouponService) Validate(ctx context.Context, userID uuid.UUID, code string) (*models.Coupon, error) {
	coupon, err := s.coupons.FindByCodeAndUser(ctx, code, userID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The row may exist but be inactive; an expired coupon must
			// keep reading as expired, not vanish.
			if inactive, ierr := s.coupons.FindByCodeAndUser(ctx, code, userID, false); ierr == nil {
				if inactive.ExpirationDate.Before(time.Now()) {
					return nil, ErrCouponExpired
				}
			}
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if coupon.ExpirationDate.Before(time.Now()) {
		coupon.IsActive = false
		if err := s.coupons.Save(ctx, coupon); err != nil {
			return nil, fmt.Errorf("failed to deactivate expired coupon: %w", err)
		}
		return nil, ErrCouponExpired
	}
	return coupon, nil
}

// Deactivate marks the user's coupon with the given code as used up.
func (s *CouponService) Deactivate(ctx context.Context, userID uuid.UUID, code string) error {
	return s.coupons.Deactivate(ctx, code, userID)
}

// IssueLoyaltyCoupon grants (or re-grants) the user's loyalty coupon. If a
// coupon row already exists for the user — active or not — it is
// reactivated in place with a fresh expiry, keeping the row count at one.
func (s *CouponService) IssueLoyaltyCoupon(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	existing, err := s.coupons.FindByUser(ctx, userID)
	if err == nil {
		existing.IsActive = true
		existing.ExpirationDate = time.Now().Add(LoyaltyCouponTTL)
		if err := s.coupons.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate coupon: %w", err)
		}
		s.logger.Info("loyalty coupon reactivated",
			zap.String("user_id", userID.String()),
			zap.String("code", existing.Code),
		)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	coupon := &models.Coupon{
		ID:                 uuid.New(),
		Code:               "GIFT" + randomCouponCode(6),
		DiscountPercentage: LoyaltyDiscountPercentage,
		ExpirationDate:     time.Now().Add(LoyaltyCouponTTL),
		IsActive:           true,
		UserID:             userID,
	}
	if err := validateDiscountPercentage(coupon.DiscountPercentage); err != nil {
		return nil, err
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info("loyalty coupon issued",
		zap.String("user_id", userID.String()),
		zap.String("code", coupon.Code),
	)
	return coupon, nil
}

// ApplyDiscount computes the discounted total in the currency's minor
// unit: total = subtotal − round(subtotal × pct / 100). Both checkout
// pricing and total display go through this one function.
func ApplyDiscount(subtotalCents int64, discountPercentage float64) int64 {
	discount := int64(math.Round(float64(subtotalCents) * discountPercentage / 100))
	return subtotalCents - discount
}

// validateDiscountPercentage rejects percentages outside [0, 100] at
// coupon creation time.
func validateDiscountPercentage(pct float64) error {
	if pct < 0 || pct > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// randomCouponCode returns a human-readable uppercase alphanumeric code.
func randomCouponCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = couponCodeCharset[rand.Intn(len(couponCodeCharset))]
	}
	return string(code)
}
