package middleware

import (
	"errors"
	"net/http"

	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// UserContextKey is where the authenticated user is stored in the gin
// context.
const UserContextKey = "currentUser"

// AccessTokenCookie and RefreshTokenCookie are the auth cookie names.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// RequireAuth validates the access token cookie and loads the user behind
// it. An expired token gets a distinct message so clients know to refresh
// instead of re-logging in.
func RequireAuth(tokens *services.TokenService, auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No access token provided"})
			c.Abort()
			return
		}

		userID, err := tokens.ValidateAccessToken(tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			}
			c.Abort()
			return
		}

		user, err := auth.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// AdminOnly restricts a route to admin users. Must run after RequireAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - Admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
