package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/infrastructure/ratelimit"
	"github.com/membergate/membergate/internal/interfaces/http/handlers"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	LoginPolicy    ratelimit.Policy
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/login", cfg.RateLimiter.Limit(cfg.LoginPolicy, middleware.ByClientIP("login")), cfg.AuthHandler.Login)
		auth.POST("/logout", cfg.AuthMiddleware.OptionalAuth(), cfg.AuthHandler.Logout)
	}
}
