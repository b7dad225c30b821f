package infrastructure

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"users-rest-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mongo: config.MongoConfig{
			URI:                           "mongodb://127.0.0.1:1",
			Database:                      "dummy",
			ServerSelectionTimeoutSeconds: 5,
			ConnectRetries:                0,
			ConnectBackoffMS:              10,
		},
		Redis:  config.RedisConfig{CacheTTLSeconds: 30},
		Logger: config.LoggerConfig{Level: "info", SlowQuerySeconds: 0.2},
	}
}

func TestNewDatabase(t *testing.T) {
	client, err := NewDatabase(testConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "dummy", client.Database().Name())
	assert.NoError(t, CloseDatabase(context.Background(), client))
	assert.NoError(t, CloseDatabase(context.Background(), nil))
}

func TestNewDatabase_InvalidURI(t *testing.T) {
	cfg := testConfig()
	cfg.Mongo.URI = "postgres://localhost"

	_, err := NewDatabase(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		assert.Nil(t, NewRedisClient(context.Background(), testConfig(), zap.NewNop()))
	})

	t.Run("enabled", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Redis.Addr = mr.Addr()

		rdb := NewRedisClient(context.Background(), cfg, zap.NewNop())
		require.NotNil(t, rdb)
		assert.NoError(t, rdb.Close())
	})

	t.Run("unreachable degrades to no cache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Redis.Addr = mr.Addr()
		mr.Close()

		assert.Nil(t, NewRedisClient(context.Background(), cfg, zap.NewNop()))
	})
}
