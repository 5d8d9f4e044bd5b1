package routes

import (
	"storefront-backend/controllers"
	"storefront-backend/middleware"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything Register needs to wire the API.
type Controllers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Coupons  *controllers.CouponController
	Payments *controllers.PaymentController
}

// Register mounts all route groups under /api.
func Register(r *gin.Engine, ctrl Controllers, tokens *services.TokenService, auth *services.AuthService) {
	requireAuth := middleware.RequireAuth(tokens, auth)
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	{
		authGroup.POST("/signup", ctrl.Auth.Signup)
		authGroup.POST("/login", ctrl.Auth.Login)
		authGroup.POST("/logout", ctrl.Auth.Logout)
		authGroup.POST("/refresh-token", ctrl.Auth.Refresh)
		authGroup.GET("/profile", requireAuth, ctrl.Auth.Profile)
	}

	products := api.Group("/products")
	{
		products.GET("/", requireAuth, adminOnly, ctrl.Products.GetAll)
		products.GET("/featured", ctrl.Products.GetFeatured)
		products.GET("/recommended", ctrl.Products.GetRecommended)
		products.GET("/category/:category", ctrl.Products.GetByCategory)
		products.POST("/", requireAuth, adminOnly, ctrl.Products.Create)
		products.PATCH("/:id", requireAuth, adminOnly, ctrl.Products.ToggleFeatured)
		products.DELETE("/:id", requireAuth, adminOnly, ctrl.Products.Delete)
	}

	cart := api.Group("/cart")
	cart.Use(requireAuth)
	{
		cart.GET("/", ctrl.Cart.GetCart)
		cart.POST("/", ctrl.Cart.AddItem)
		cart.PUT("/:id", ctrl.Cart.UpdateQuantity)
		cart.DELETE("/", ctrl.Cart.Remove)
	}

	coupons := api.Group("/coupons")
	coupons.Use(requireAuth)
	{
		coupons.GET("/", ctrl.Coupons.GetCoupon)
		coupons.POST("/validate", ctrl.Coupons.ValidateCoupon)
	}

	payments := api.Group("/payments")
	payments.Use(requireAuth)
	{
		payments.POST("/create-checkout-session", ctrl.Payments.CreateCheckoutSession)
		payments.POST("/checkout-success", ctrl.Payments.CheckoutSuccess)
	}
}
