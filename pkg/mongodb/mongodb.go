package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI                    string
	Database               string
	ServerSelectionTimeout time.Duration
	ConnectRetries         int
	ConnectBackoff         time.Duration
	CommandMonitor         *event.CommandMonitor
}

// Client wraps mongo.Client with connection lifecycle handling.
type Client struct {
	client  *mongo.Client
	db      *mongo.Database
	cfg     Config
	monitor *Monitor
	log     *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a client for cfg. No network I/O happens here;
// the driver dials lazily and Connect verifies reachability.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb: empty connection URI")
	}
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 500 * time.Millisecond
	}

	monitor := NewMonitor(cfg.Database, log)

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerMonitor(monitor.ServerMonitor())
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.CommandMonitor != nil {
		opts.SetMonitor(cfg.CommandMonitor)
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: invalid client options: %w", err)
	}

	return &Client{
		client:  client,
		db:      client.Database(cfg.Database),
		cfg:     cfg,
		monitor: monitor,
		log:     log,
	}, nil
}

// Connect pings the server until it answers, retrying with exponential
// backoff up to ConnectRetries extra attempts.
func (c *Client) Connect(ctx context.Context) error {
	backoff := retry.WithMaxRetries(uint64(c.cfg.ConnectRetries), retry.NewExponential(c.cfg.ConnectBackoff))

	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := c.Ping(ctx); err != nil {
			c.log.Warn("MongoDB ping failed",
				zap.String("database", c.cfg.Database),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", attempts, err)
	}

	c.monitor.Transition(StateConnected)
	return nil
}

// Ping checks if the MongoDB connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Monitor returns the connection state monitor.
func (c *Client) Monitor() *Monitor {
	return c.monitor
}

// Disconnect closes the connection. Calls after the first are no-ops.
func (c *Client) Disconnect(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.log.Info("Closing MongoDB connection", zap.String("database", c.cfg.Database))
		c.closeErr = c.client.Disconnect(ctx)
		c.monitor.Transition(StateClosed)
	})
	return c.closeErr
}
