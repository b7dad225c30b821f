package infrastructure

import (
	"context"

	"go.uber.org/zap"

	"users-rest-api/internal/config"
	redisclient "users-rest-api/pkg/redis"
)

// NewRedisClient connects to Redis when caching is configured.
// It returns nil when caching is disabled or Redis is unreachable;
// the service then runs without a cache.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) *redisclient.Client {
	if !cfg.Redis.CacheEnabled() {
		l.Info("Redis cache disabled")
		return nil
	}

	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}, l)
	if err != nil {
		l.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		return nil
	}

	return rdb
}
