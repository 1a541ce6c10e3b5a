package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/infrastructure/ratelimit"
	"github.com/membergate/membergate/internal/interfaces/http/handlers"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
)

// AccountRouteConfig holds dependencies for the member form routes.
type AccountRouteConfig struct {
	AccountHandler *handlers.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	CardPolicy     ratelimit.Policy
}

// SetupAccountRoutes configures the routes the rendered member forms post to.
func SetupAccountRoutes(engine *gin.Engine, cfg *AccountRouteConfig) {
	account := engine.Group("/account")
	account.Use(cfg.AuthMiddleware.RequireAuth())
	{
		account.POST("/password", cfg.AccountHandler.ChangePassword)
		account.POST("/profile", cfg.AccountHandler.UpdateProfile)
		account.POST("/card", cfg.RateLimiter.Limit(cfg.CardPolicy, middleware.ByUser("card")), cfg.AccountHandler.UpdateCard)
	}
}
