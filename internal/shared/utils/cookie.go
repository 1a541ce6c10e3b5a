package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/shared/constants"
)

// SetSessionCookie stores the session token as an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", secure, true)
}
