package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/infrastructure/config"
	"github.com/membergate/membergate/internal/infrastructure/metrics"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and
// handlers. It wires everything together and owns the HTTP server.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	server  *http.Server
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	repos *repositories
	svcs  *allServices
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

// NewContainer wires the application. redisClient may be nil, in which case
// earnings are never cached and rate limits are not enforced.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		metrics: metrics.New(),
	}

	c.repos = newRepositories(db)

	svcs, err := c.newServices()
	if err != nil {
		return nil, err
	}
	c.svcs = svcs

	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()

	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.sessions, cfg.Auth.CookieSecure, log.Named("auth"))
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.svcs.authorizer, log.Named("permission"))
	if c.svcs.limiter != nil {
		c.rateLimiter = middleware.NewRateLimiter(c.svcs.limiter, log.Named("ratelimit"))
	}

	c.setupRoutes()

	c.server = &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           c.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return c, nil
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Run serves HTTP on the configured address until Shutdown is called.
func (c *Container) Run() error {
	c.log.Infow("http server listening", "addr", c.server.Addr)
	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
