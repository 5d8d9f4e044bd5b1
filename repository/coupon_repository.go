package repository

import (
	"context"
	"strings"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponRepository defines the interface for coupon data access. Each user
// owns at most one coupon row; the unique index on user_id enforces it.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Coupon, error)
	FindByCodeAndUser(ctx context.Context, code string, userID uuid.UUID, activeOnly bool) (*models.Coupon, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Coupon, error)
	Save(ctx context.Context, coupon *models.Coupon) error
	Deactivate(ctx context.Context, code string, userID uuid.UUID) error
}

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) CouponRepository {
	return &GormCouponRepository{db: db}
}

// Create inserts a new coupon.
func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// FindActiveByUser retrieves the user's active coupon, if any.
func (r *GormCouponRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCodeAndUser retrieves a coupon matching code and owner
// (case-insensitive on the code).
func (r *GormCouponRepository) FindByCodeAndUser(ctx context.Context, code string, userID uuid.UUID, activeOnly bool) (*models.Coupon, error) {
	query := r.db.WithContext(ctx).
		Where("LOWER(code) = ? AND user_id = ?", strings.ToLower(code), userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var coupon models.Coupon
	if err := query.First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByUser retrieves the user's coupon row regardless of active state.
func (r *GormCouponRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Save persists changes to an existing coupon row.
func (r *GormCouponRepository) Save(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// Deactivate sets is_active = false for the user's coupon with the given
// code.
func (r *GormCouponRepository) Deactivate(ctx context.Context, code string, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("LOWER(code) = ? AND user_id = ?", strings.ToLower(code), userID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
