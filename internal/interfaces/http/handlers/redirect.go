package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/shared/utils"
)

// RedirectField is the form field naming the page a form was submitted from.
const RedirectField = "redirect"

// returnTarget picks where a form submission goes back to: the redirect
// field, else the Referer, else fallback. Off-site targets are replaced by
// fallback.
func returnTarget(c *gin.Context, fallback string) string {
	raw := c.PostForm(RedirectField)
	if raw == "" {
		raw = c.Request.Referer()
	}
	return utils.LocalRedirectTarget(raw, c.Request.Host, fallback)
}

// redirectWith sends a 303 to target with args added to its query.
func redirectWith(c *gin.Context, target string, args map[string]string) {
	c.Redirect(http.StatusSeeOther, utils.AddQueryArgs(target, args))
}
