package controllers

import (
	"errors"
	"net/http"

	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// ProductController handles the catalog endpoints.
type ProductController struct {
	products *services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// GetAll returns the full catalog. Admin only.
func (pc *ProductController) GetAll(c *gin.Context) {
	products, err := pc.products.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetFeatured returns the featured products, served from cache when
// possible.
func (pc *ProductController) GetFeatured(c *gin.Context) {
	products, err := pc.products.GetFeatured(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load featured products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetRecommended returns a small random product sample.
func (pc *ProductController) GetRecommended(c *gin.Context) {
	products, err := pc.products.GetRecommended(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recommendations"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetByCategory returns the products in one category.
func (pc *ProductController) GetByCategory(c *gin.Context) {
	category := c.Param("category")

	products, err := pc.products.GetByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Create adds a catalog entry. Admin only.
func (pc *ProductController) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}

	product, err := pc.products.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ToggleFeatured flips a product's featured flag. Admin only.
func (pc *ProductController) ToggleFeatured(c *gin.Context) {
	product, err := pc.products.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete removes a product. Admin only.
func (pc *ProductController) Delete(c *gin.Context) {
	if err := pc.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
