package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/interfaces/http/handlers"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
)

// ContentRouteConfig holds dependencies for content rendering routes.
type ContentRouteConfig struct {
	ContentHandler *handlers.ContentHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupContentRoutes configures content routes; anonymous visitors render
// tags as logged-out viewers.
func SetupContentRoutes(engine *gin.Engine, cfg *ContentRouteConfig) {
	content := engine.Group("/content")
	content.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		content.POST("/render", cfg.ContentHandler.Render)
		content.GET("/tags", cfg.ContentHandler.Tags)
	}
}
