package admin

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type nonceIssuer interface {
	Issue(action string, userID uint) (string, error)
}

// NonceHandler issues anti-forgery tokens bound to the session user.
type NonceHandler struct {
	nonces  nonceIssuer
	actions []string
	logger  logger.Interface
}

// NewNonceHandler only issues tokens for the given actions.
func NewNonceHandler(nonces nonceIssuer, actions []string, logger logger.Interface) *NonceHandler {
	return &NonceHandler{nonces: nonces, actions: actions, logger: logger}
}

// Issue godoc
//
//	@Summary	Issue an anti-forgery token
//	@Tags		admin
//	@Produce	json
//	@Param		action	path		string	true	"token action, e.g. rcp_bulk_edit_nonce"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	404		{object}	utils.APIResponse
//	@Router		/admin/nonces/{action} [get]
func (h *NonceHandler) Issue(c *gin.Context) {
	action := c.Param("action")
	if !slices.Contains(h.actions, action) {
		utils.ErrorResponse(c, http.StatusNotFound, "unknown nonce action")
		return
	}

	userID := middleware.CurrentUserID(c)
	token, err := h.nonces.Issue(action, userID)
	if err != nil {
		h.logger.Errorw("failed to issue nonce", "error", err, "action", action, "user_id", userID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"action": action,
		"nonce":  token,
	})
}
