package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/infrastructure/ratelimit"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

// KeyFunc derives the limiter key of a request. An empty key skips limiting.
type KeyFunc func(c *gin.Context) string

// ByClientIP keys requests by scope and client address.
func ByClientIP(scope string) KeyFunc {
	return func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", scope, c.ClientIP())
	}
}

// ByUser keys requests by scope and authenticated user; it must run after
// the auth middleware.
func ByUser(scope string) KeyFunc {
	return func(c *gin.Context) string {
		userID := CurrentUserID(c)
		if userID == 0 {
			return ""
		}
		return fmt.Sprintf("%s:%d", scope, userID)
	}
}

// RateLimiter enforces a sliding-window policy through a shared limiter so
// every instance sees the same counts.
type RateLimiter struct {
	limiter ratelimit.Limiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.Limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

// Limit returns a middleware for policy keyed by keyFn. When the limiter
// store is unavailable the request is let through.
func (rl *RateLimiter) Limit(policy ratelimit.Policy, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil || !policy.Enabled() {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, policy)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable", "error", err, "key", key)
			c.Next()
			return
		}
		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
