package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// AccessTokenTTL bounds how long a stolen access token stays usable.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL also bounds the Redis session slot.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService creates and validates JWTs. Access and refresh tokens are
// signed with independent secrets, so one class of token can never pass
// for the other even if the "typ" claim were forged.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewTokenService creates a TokenService from the two signing secrets.
func NewTokenService(accessSecret, refreshSecret string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("token secrets not configured")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}, nil
}

// GenerateTokenPair creates a new access and refresh token pair bound to a
// user identity.
func (s *TokenService) GenerateTokenPair(userID string) (*TokenPair, error) {
	accessToken, err := generateToken(userID, "access", AccessTokenTTL, s.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(userID, "refresh", RefreshTokenTTL, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GenerateAccessToken mints a new access token only, used by the refresh
// flow (the refresh token itself is not rotated).
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	return generateToken(userID, "access", AccessTokenTTL, s.accessSecret)
}

// ValidateAccessToken verifies an access token and returns the user ID it
// is bound to.
func (s *TokenService) ValidateAccessToken(tokenStr string) (string, error) {
	return validateToken(tokenStr, "access", s.accessSecret)
}

// ValidateRefreshToken verifies a refresh token and returns the user ID it
// is bound to.
func (s *TokenService) ValidateRefreshToken(tokenStr string) (string, error) {
	return validateToken(tokenStr, "refresh", s.refreshSecret)
}

// generateToken mints a signed token. The jti claim makes every token
// unique even within the same second, so replacing a session slot always
// invalidates the previous refresh token.
func generateToken(userID, tokenType string, duration time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": tokenType,
		"jti": uuid.NewString(),
		"exp": now.Add(duration).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// validateToken distinguishes expiry from every other failure so callers
// can decide between silent refresh and forced re-login.
func validateToken(tokenStr, expectedType string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
		return "", ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
