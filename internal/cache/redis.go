// Package cache keeps a Redis copy of revoked token ids so the revocation
// gate can short-circuit without a database round trip. Postgres remains
// the source of truth.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "workforce:revoked:"

type RevocationCache struct {
	client *redis.Client
}

// Connect parses a redis:// URL and pings the server. Callers treat an error
// as "run without the cache".
func Connect(ctx context.Context, url string) (*RevocationCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("redis revocation cache connected", "addr", opts.Addr)
	return NewRevocationCache(client), nil
}

func NewRevocationCache(client *redis.Client) *RevocationCache {
	return &RevocationCache{client: client}
}

// MarkRevoked remembers jti until the token would have expired anyway.
func (c *RevocationCache) MarkRevoked(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("cache revoked token: %w", err)
	}
	return nil
}

func (c *RevocationCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := c.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return true, nil
}

func (c *RevocationCache) Close() error {
	return c.client.Close()
}
