package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// Redis key for a revoked token
func revokedKey(tokenID string) string {
	return "session:" + tokenID + ":revoked"
}

// Revoke marks the token as unusable until ttl elapses. A non-positive ttl means the
// token has already expired and nothing needs storing.
func (r *RedisSessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

func (r *RedisSessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
