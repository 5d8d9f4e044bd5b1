package controllers

import (
	"errors"
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// CartController handles the cart endpoints.
type CartController struct {
	carts *services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// GetCart returns the cart joined with live catalog data.
func (cc *CartController) GetCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lines, err := cc.carts.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, lines)
}

// AddItem adds one unit of a product to the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	if err := cc.carts.AddItem(c.Request.Context(), user.ID, req.ProductID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

// UpdateQuantity sets one entry's quantity; zero removes it.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	productID := c.Param("id")

	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be zero or greater"})
		return
	}

	if err := cc.carts.UpdateQuantity(c.Request.Context(), user.ID, productID, *req.Quantity); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// Remove deletes one product's entry, or empties the cart when no product
// ID is sent.
func (cc *CartController) Remove(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Body is optional: an empty one clears the whole cart.
	var req models.RemoveFromCartRequest
	_ = c.ShouldBindJSON(&req)

	if err := cc.carts.Remove(c.Request.Context(), user.ID, req.ProductID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
}
