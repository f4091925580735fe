// Package tokens tracks issued password reset tokens in redis so each
// one can be consumed at most once.
package tokens

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"mannequins/backend/internal/config"
)

const resetKeyPrefix = "reset_token:"

// ResetRegistry records outstanding reset tokens by their jti claim.
type ResetRegistry interface {
	Register(ctx context.Context, jti string, ttl time.Duration) error
	// Consume removes the token and reports whether it was outstanding.
	Consume(ctx context.Context, jti string) (bool, error)
}

type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry connects to redis and verifies the connection.
func NewRedisRegistry(ctx context.Context, cfg *config.Config) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisRegistry{client: client}, nil
}

func (r *RedisRegistry) Register(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, resetKeyPrefix+jti, "1", ttl).Err()
}

func (r *RedisRegistry) Consume(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.GetDel(ctx, resetKeyPrefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
