package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// AuthServiceAPI is the slice of AuthService the controller needs; tests
// substitute a mock.
type AuthServiceAPI interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// AuthController handles the auth endpoints and owns the auth cookies.
type AuthController struct {
	auth          AuthServiceAPI
	secureCookies bool
}

// NewAuthController creates a new AuthController. secureCookies should be
// true in production so cookies are HTTPS-only.
func NewAuthController(auth AuthServiceAPI, secureCookies bool) *AuthController {
	return &AuthController{auth: auth, secureCookies: secureCookies}
}

// Signup registers an account and opens a session.
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, pair, err := ac.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	ac.setAuthCookies(c, pair)
	c.JSON(http.StatusCreated, user.PublicView())
}

// Login authenticates and opens a session, revoking any prior one.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, pair, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	ac.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, user.PublicView())
}

// Logout deletes the session and clears both cookies.
func (ac *AuthController) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)

	if err := ac.auth.Logout(c.Request.Context(), refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	ac.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Refresh exchanges the refresh token cookie for a fresh access token.
func (ac *AuthController) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token provided"})
		return
	}

	accessToken, err := ac.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrSessionRevoked):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
		}
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(services.AccessTokenTTL/time.Second), "/", "", ac.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed successfully"})
}

// Profile returns the authenticated user.
func (ac *AuthController) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user.PublicView())
}

func (ac *AuthController) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken,
		int(services.AccessTokenTTL/time.Second), "/", "", ac.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken,
		int(services.RefreshTokenTTL/time.Second), "/", "", ac.secureCookies, true)
}

func (ac *AuthController) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ac.secureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", ac.secureCookies, true)
}
