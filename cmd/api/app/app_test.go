package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"users-rest-api/internal/config"
	"users-rest-api/pkg/mongodb"
)

func testConfig(retries int) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:                    "test",
			Port:                   "0",
			CORSAllowedOrigins:     []string{"*"},
			MaxBodyBytes:           1 << 20,
			ShutdownTimeoutSeconds: 5,
			UsersListLimit:         5,
		},
		Mongo: config.MongoConfig{
			URI:                           "mongodb://127.0.0.1:1/?connect=direct",
			Database:                      "dummy",
			ServerSelectionTimeoutSeconds: 1,
			ConnectRetries:                retries,
			ConnectBackoffMS:              10,
		},
		Redis:  config.RedisConfig{CacheTTLSeconds: 30},
		Logger: config.LoggerConfig{Level: "info", SlowQuerySeconds: 0.2},
	}
}

func TestApp_RunFailsWhenDatabaseUnreachable(t *testing.T) {
	a, err := NewWithLogger(context.Background(), testConfig(0), zap.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database error")
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after connect failure")
	}

	assert.Equal(t, mongodb.StateClosed, a.Container.Mongo.Monitor().State())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a, err := NewWithLogger(context.Background(), testConfig(100), zap.New(core))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Server listening").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, 1, logs.FilterMessage("application shutdown complete").Len())
	assert.NoError(t, a.shutdown())
}

func TestNewWithLogger_InvalidProxies(t *testing.T) {
	cfg := testConfig(0)
	cfg.App.TrustedProxies = []string{"bogus"}

	_, err := NewWithLogger(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
