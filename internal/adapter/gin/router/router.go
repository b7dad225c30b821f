package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-rest-api/internal/adapter/gin/handler"
	"users-rest-api/internal/adapter/gin/middleware"
	"users-rest-api/pkg/logger"
)

// PrivateNetworks are trusted as proxies when no explicit list is given,
// so a reverse proxy on the same host or private network is honoured.
var PrivateNetworks = []string{
	"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "::1/128", "fc00::/7",
}

// Options configures the middleware chain and routes.
type Options struct {
	TrustedProxies []string
	AllowedOrigins []string
	MaxBodyBytes   int64
	UsersListLimit int64
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
//
// Chain order: request id, access log, terminal error stage, panic recovery,
// CORS, cookies, body parsing, then routes. The error stage sits above every
// handler that can fail so it sees all of their errors, including 404s.
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	proxies := opts.TrustedProxies
	if len(proxies) == 0 {
		proxies = PrivateNetworks
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	cors, err := middleware.CORS(opts.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Recovery(log))
	router.Use(cors)
	router.Use(middleware.Cookies())
	router.Use(middleware.BodyParser(opts.MaxBodyBytes))

	router.GET("/", handler.Teapot)

	users := router.Group("/users")
	{
		list := middleware.Handle(userHandler.MakeListHandler(opts.UsersListLimit))
		users.GET("", list)
		users.GET("/", list)
	}

	router.NoRoute(middleware.NotFound())

	return router, nil
}
