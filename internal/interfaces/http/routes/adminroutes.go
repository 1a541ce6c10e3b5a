package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/domain/permission"
	adminHandlers "github.com/membergate/membergate/internal/interfaces/http/handlers/admin"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	ActionHandler        *adminHandlers.ActionHandler
	NonceHandler         *adminHandlers.NonceHandler
	EarningsHandler      *adminHandlers.EarningsHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures admin routes. Action routes check the
// capability of each action inside the dispatcher.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.POST("/actions", cfg.ActionHandler.Submit)
		admin.GET("/actions", cfg.ActionHandler.Link)
		admin.GET("/nonces/:action", cfg.NonceHandler.Issue)
		admin.GET("/earnings",
			cfg.PermissionMiddleware.RequireCapability(permission.CapViewPayments),
			cfg.EarningsHandler.Total,
		)
	}
}
