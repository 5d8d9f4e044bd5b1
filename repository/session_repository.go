package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository is the single source of truth for refresh tokens: one
// expiring slot per user. Put overwrites any prior slot, which is the only
// session-invalidation mechanism — the previous refresh token becomes
// unusable even before it expires.
type SessionRepository interface {
	Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// RedisSessionRepository implements SessionRepository on an expiring
// key-value store.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new RedisSessionRepository.
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) key(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

// Put stores the user's current refresh token, replacing any prior one.
func (r *RedisSessionRepository) Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(userID), refreshToken, ttl).Err()
}

// Get returns the stored refresh token, or "" when no session exists.
func (r *RedisSessionRepository) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Delete removes the user's session on logout.
func (r *RedisSessionRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}
