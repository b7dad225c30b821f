package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"users-rest-api/cmd/api/infrastructure"
	"users-rest-api/internal/adapter/cache"
	mongorepo "users-rest-api/internal/adapter/db/mongodb"
	ginhandler "users-rest-api/internal/adapter/gin/handler"
	"users-rest-api/internal/adapter/repository/cached"
	"users-rest-api/internal/config"
	"users-rest-api/internal/usecase/user"
	"users-rest-api/pkg/mongodb"
	redisclient "users-rest-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Mongo       *mongodb.Client
	RedisClient *redisclient.Client
	UserRepo    *mongorepo.UserRepoMongo
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer wires all application dependencies. The database client is
// created but not connected; call ConnectDatabase to reach the server.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	mongoClient, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	dbRepo := mongorepo.NewUserRepoMongo(mongoClient.Database(), l)

	// nil cache makes the cached repository a pass-through
	var userCache cache.UserListCache
	rdb := infrastructure.NewRedisClient(ctx, cfg, l)
	if rdb != nil {
		userCache = cache.NewRedisUserListCache(rdb.Client, cfg.Redis.CacheTTL(), l)
	}
	repo := cached.NewCachedUserRepository(dbRepo, userCache, l)

	userUC := user.New(repo, l)
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		Mongo:       mongoClient,
		RedisClient: rdb,
		UserRepo:    dbRepo,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// ConnectDatabase connects to MongoDB and installs the users collection
// validator. A validator failure is logged but does not fail the connect.
func (c *Container) ConnectDatabase(ctx context.Context) error {
	if err := c.Mongo.Connect(ctx); err != nil {
		return err
	}

	if err := c.UserRepo.EnsureSchema(ctx); err != nil {
		c.Logger.Warn("failed to install users schema", zap.Error(err))
	}

	return nil
}

// Close closes all resources held by the container
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := infrastructure.CloseDatabase(ctx, c.Mongo); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
