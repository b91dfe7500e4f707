package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSessionRepository persists session entries as plain Redis strings so
// several terminals can share one login.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisSessionRepository constructs a Redis backed session store.
func NewRedisSessionRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionRepository{client: client, prefix: prefix, logger: logger}
}

// Get retrieves the value stored for key.
func (r *RedisSessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", r.prefix+key, err)
	}
	return value, true, nil
}

// Set stores value without expiry; the backend decides when a token dies.
func (r *RedisSessionRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.prefix+key, err)
	}
	return nil
}

// Delete removes the given keys.
func (r *RedisSessionRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = r.prefix + key
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete session keys: %w", err)
	}
	r.logger.Debug("session keys removed", zap.Strings("keys", full))
	return nil
}
