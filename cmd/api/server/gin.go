package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "users-rest-api/internal/adapter/gin/handler"
	ginrouter "users-rest-api/internal/adapter/gin/router"
	"users-rest-api/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(handler *ginhandler.UserHandler, cfg *config.Config, l *zap.Logger) (*http.Server, error) {
	router, err := ginrouter.SetupRouter(handler, ginrouter.Options{
		TrustedProxies: cfg.App.TrustedProxies,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		MaxBodyBytes:   cfg.App.MaxBodyBytes,
		UsersListLimit: cfg.App.UsersListLimit,
	}, l)
	if err != nil {
		return nil, err
	}

	l.Info("Gin REST API configured",
		zap.String("address", cfg.App.Addr()),
		zap.Strings("cors_origins", cfg.App.CORSAllowedOrigins),
		zap.Int64("users_list_limit", cfg.App.UsersListLimit),
	)

	return &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}
