package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/application/account"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type AuthHandler struct {
	loginUseCase loginUseCase
	cookieSecure bool
	logger       logger.Interface
}

func NewAuthHandler(loginUC loginUseCase, cookieSecure bool, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// LoginRequest is accepted as JSON or as the rendered login form.
type LoginRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Redirect string `json:"redirect" form:"redirect"`
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Verifies the credentials and sets the session cookie. Form posts carrying a redirect field are sent back to that page.
//	@Tags			auth
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"credentials"
//	@Success		200		{object}	utils.APIResponse
//	@Success		303
//	@Failure		400		{object}	utils.APIResponse
//	@Failure		401		{object}	utils.APIResponse
//	@Failure		429		{object}	utils.APIResponse
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "login and password are required")
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), account.LoginCommand{
		Identifier: req.Login,
		Password:   req.Password,
	})
	if err != nil {
		h.logger.Warnw("login failed", "error", err, "client_ip", c.ClientIP())
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetSessionCookie(c, result.Token, int(result.ExpiresIn), h.cookieSecure)

	if req.Redirect != "" {
		c.Redirect(http.StatusSeeOther, utils.LocalRedirectTarget(req.Redirect, c.Request.Host, "/"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"user_id":      result.Member.ID(),
		"display_name": result.Member.DisplayName(),
		"expires_in":   result.ExpiresIn,
	})
}

// Logout godoc
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	utils.APIResponse
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, h.cookieSecure)
	utils.SuccessResponse(c, http.StatusOK, "logout successful", nil)
}
