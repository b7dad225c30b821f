package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"users-rest-api/internal/config"
	"users-rest-api/pkg/logger"
	"users-rest-api/pkg/mongodb"
)

// NewDatabase creates the MongoDB client. It does not contact the server;
// call Connect on the result to establish and verify the connection.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*mongodb.Client, error) {
	mongoLogger := logger.NewMongoLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	client, err := mongodb.NewClient(mongodb.Config{
		URI:                    cfg.Mongo.URI,
		Database:               cfg.Mongo.Database,
		ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout(),
		ConnectRetries:         cfg.Mongo.ConnectRetries,
		ConnectBackoff:         cfg.Mongo.ConnectBackoff(),
		CommandMonitor:         mongoLogger.CommandMonitor(),
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	l.Info("database client configured",
		zap.String("database", cfg.Mongo.Database),
		zap.Duration("server_selection_timeout", cfg.Mongo.ServerSelectionTimeout()),
		zap.Int("connect_retries", cfg.Mongo.ConnectRetries),
	)

	return client, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(ctx context.Context, client *mongodb.Client) error {
	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
