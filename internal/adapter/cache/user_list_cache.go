package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "users-rest-api/internal/domain/user"
)

// keyPrefix namespaces every list entry so Invalidate can find them.
const keyPrefix = "users:list:"

// UserListCache defines caching of capped user listings.
type UserListCache interface {
	// Get returns the cached listing for limit.
	// The boolean is false on a cache miss.
	Get(ctx context.Context, limit int64) ([]domain.User, bool, error)

	// Set stores the listing for limit with the configured TTL.
	Set(ctx context.Context, limit int64, users []domain.User) error

	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context) error
}

// RedisUserListCache implements UserListCache using Redis.
type RedisUserListCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserListCache creates a Redis-backed list cache.
func NewRedisUserListCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserListCache {
	return &RedisUserListCache{client: client, ttl: ttl, log: log}
}

func cacheKey(limit int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, limit)
}

// Get retrieves a listing from Redis.
func (c *RedisUserListCache) Get(ctx context.Context, limit int64) ([]domain.User, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Int64("limit", limit))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get users from cache: %w", err)
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached users: %w", err)
	}

	c.log.Debug("cache hit", zap.Int64("limit", limit), zap.Int("count", len(users)))
	return users, true, nil
}

// Set stores a listing in Redis.
func (c *RedisUserListCache) Set(ctx context.Context, limit int64, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set users in cache: %w", err)
	}

	c.log.Debug("cached users", zap.Int64("limit", limit), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes all listings.
func (c *RedisUserListCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached users: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached users: %w", err)
	}

	c.log.Debug("invalidated cached users", zap.Int("keys", len(keys)))
	return nil
}
