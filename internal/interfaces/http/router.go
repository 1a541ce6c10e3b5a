package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/interfaces/http/routes"

	_ "github.com/membergate/membergate/docs"
)

// setupRoutes configures all HTTP routes.
func (c *Container) setupRoutes() {
	cfg := c.cfg
	h := c.hdlrs

	c.engine.Use(middleware.Recovery(c.log.Named("recovery")))
	c.engine.Use(middleware.Logger(c.log.Named("http"), c.metrics))
	c.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", h.healthHandler.HealthCheck)
	c.engine.GET("/version", h.healthHandler.Version)
	c.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.metrics.Registry(), promhttp.HandlerOpts{})))
	if cfg.Server.Mode != gin.ReleaseMode {
		c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler:    h.authHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
		LoginPolicy:    loginPolicy(cfg.RateLimit),
	})

	routes.SetupAccountRoutes(c.engine, &routes.AccountRouteConfig{
		AccountHandler: h.accountHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
		CardPolicy:     cardUpdatePolicy(cfg.RateLimit),
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		ActionHandler:        h.actionHandler,
		NonceHandler:         h.nonceHandler,
		EarningsHandler:      h.earningsHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupContentRoutes(c.engine, &routes.ContentRouteConfig{
		ContentHandler: h.contentHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
