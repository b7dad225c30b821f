package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	ginhandler "users-rest-api/internal/adapter/gin/handler"
	"users-rest-api/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler) (*Server, error) {
	httpServer, err := SetupGinServer(handler, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   httpServer,
	}, nil
}

// Listen binds the configured address.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.HTTP.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}
	return lis, nil
}

// Serve accepts connections on lis until Shutdown is called.
// A server stopped by Shutdown returns nil.
func (s *Server) Serve(lis net.Listener) error {
	s.Logger.Info("Server listening",
		zap.String("port", s.Config.App.Port),
		zap.String("address", lis.Addr().String()),
	)

	if err := s.HTTP.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server...")
	return s.HTTP.Shutdown(ctx)
}
