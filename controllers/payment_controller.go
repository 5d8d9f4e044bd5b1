package controllers

import (
	"errors"
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// PaymentController handles checkout session creation and confirmation.
type PaymentController struct {
	checkout *services.CheckoutService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{checkout: checkout}
}

// CreateCheckoutSession opens a payment session for the submitted line
// items and returns its ID plus the discounted total.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty products array"})
		return
	}

	sessionID, total, err := pc.checkout.CreateSession(c.Request.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, services.ErrCouponExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": sessionID, "total_amount": total})
}

// CheckoutSuccess confirms a paid session and returns the resulting
// order. Confirming the same session again returns the same order.
func (pc *PaymentController) CheckoutSuccess(c *gin.Context) {
	var req models.CheckoutSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	order, err := pc.checkout.ConfirmSuccess(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotCompleted) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not completed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Payment successful and order created",
		"order_id": order.ID,
	})
}
