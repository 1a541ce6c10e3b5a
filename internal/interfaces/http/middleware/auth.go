package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/infrastructure/auth"
	"github.com/membergate/membergate/internal/shared/constants"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type sessionVerifier interface {
	Issue(userID uint) (string, int64, error)
	Verify(tokenString string) (*auth.SessionClaims, error)
	ShouldRefresh(claims *auth.SessionClaims) bool
}

type AuthMiddleware struct {
	sessions     sessionVerifier
	cookieSecure bool
	logger       logger.Interface
}

func NewAuthMiddleware(sessions sessionVerifier, cookieSecure bool, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:     sessions,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// RequireAuth rejects requests without a valid session.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets user_id when a valid session is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.authenticate(c)
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	token, fromCookie := extractToken(c)
	if token == "" {
		return false
	}

	claims, err := m.sessions.Verify(token)
	if err != nil {
		m.logger.Debugw("session rejected", "error", err, "path", c.Request.URL.Path)
		if fromCookie {
			utils.ClearSessionCookie(c, m.cookieSecure)
		}
		return false
	}

	c.Set(constants.ContextKeyUserID, claims.UserID)

	if fromCookie && m.sessions.ShouldRefresh(claims) {
		fresh, maxAge, err := m.sessions.Issue(claims.UserID)
		if err != nil {
			m.logger.Warnw("failed to refresh session", "error", err, "user_id", claims.UserID)
		} else {
			utils.SetSessionCookie(c, fresh, int(maxAge), m.cookieSecure)
		}
	}
	return true
}

func extractToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(constants.SessionCookieName); err == nil && token != "" {
		return token, true
	}

	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), false
}

// CurrentUserID returns the authenticated user id, or 0.
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
