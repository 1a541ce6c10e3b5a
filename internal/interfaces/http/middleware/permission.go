package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type capabilityChecker interface {
	Can(ctx context.Context, userID uint, capability permission.Capability) (bool, error)
}

type PermissionMiddleware struct {
	access capabilityChecker
	logger logger.Interface
}

func NewPermissionMiddleware(access capabilityChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{access: access, logger: logger}
}

// RequireCapability aborts with 403 unless the session user holds capability.
func (m *PermissionMiddleware) RequireCapability(capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == 0 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.access.Can(c.Request.Context(), userID, capability)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "capability", capability)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}
		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "capability", capability)
			utils.ErrorResponse(c, http.StatusForbidden, "You do not have permission to perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}
