package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles signup, login, logout and the refresh flow. A user
// has exactly one session slot: issuing a new refresh token overwrites the
// previous one, which then fails with ErrSessionRevoked on its next use.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *TokenService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// Signup creates an account and immediately opens a session for it.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     "customer",
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup may slip past the lookup above and lose the
		// race on the unique email index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	pair, err := s.openSession(ctx, user.ID.String())
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user.ID.String())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout deletes the session slot for the user the refresh token belongs
// to. An unparseable token is ignored; logout never fails the client for
// a token that is already useless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, userID)
}

// Refresh exchanges a valid, currently-registered refresh token for a new
// access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	stored, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	if stored == "" || stored != refreshToken {
		return "", ErrSessionRevoked
	}

	return s.tokens.GenerateAccessToken(userID)
}

// GetUser loads a user by the ID embedded in an access token.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// openSession mints a token pair and registers the refresh token as the
// user's single active session, replacing any prior one.
func (s *AuthService) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	pair, err := s.tokens.GenerateTokenPair(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if err := s.sessions.Put(ctx, userID, pair.RefreshToken, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return pair, nil
}
