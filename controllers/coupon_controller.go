package controllers

import (
	"errors"
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// CouponController handles the coupon endpoints.
type CouponController struct {
	coupons *services.CouponService
}

// NewCouponController creates a new CouponController.
func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

// GetCoupon returns the user's active coupon, or null when they hold none.
func (cc *CouponController) GetCoupon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	coupon, err := cc.coupons.GetActiveCoupon(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load coupon"})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// ValidateCoupon checks a coupon code for the authenticated user.
func (cc *CouponController) ValidateCoupon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	coupon, err := cc.coupons.Validate(c.Request.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, services.ErrCouponExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		}
		return
	}

	c.JSON(http.StatusOK, models.ValidateCouponResponse{
		Message:            "Coupon is valid",
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	})
}
