package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/application/account"
	"github.com/membergate/membergate/internal/application/content"
	gatewayUsecases "github.com/membergate/membergate/internal/application/gateway/usecases"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

// Query parameters the account forms come back with.
const (
	paramPasswordReset  = "password-reset"
	paramProfileUpdated = "updated"
	paramMessage        = "msg"
)

// AccountHandler processes the member-facing forms produced by the content
// renderer. Every form is bound to its own nonce action.
type AccountHandler struct {
	changePasswordUseCase changePasswordUseCase
	updateProfileUseCase  updateProfileUseCase
	updateCardUseCase     updateBillingCardUseCase
	nonces                nonceVerifier
	logger                logger.Interface
}

func NewAccountHandler(
	changePasswordUC changePasswordUseCase,
	updateProfileUC updateProfileUseCase,
	updateCardUC updateBillingCardUseCase,
	nonces nonceVerifier,
	logger logger.Interface,
) *AccountHandler {
	return &AccountHandler{
		changePasswordUseCase: changePasswordUC,
		updateProfileUseCase:  updateProfileUC,
		updateCardUseCase:     updateCardUC,
		nonces:                nonces,
		logger:                logger,
	}
}

type ChangePasswordForm struct {
	OldPassword     string `form:"old_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

type UpdateProfileForm struct {
	Email       string `form:"email"`
	DisplayName string `form:"display_name"`
}

type UpdateCardForm struct {
	CardNumber string `form:"card_number"`
	CVC        string `form:"card_cvc"`
	Zip        string `form:"card_zip"`
	ExpMonth   string `form:"card_exp_month"`
	ExpYear    string `form:"card_exp_year"`
}

// verifyNonce aborts with 403 unless the form carries a valid token for
// action issued to the current user.
func (h *AccountHandler) verifyNonce(c *gin.Context, action string, userID uint) bool {
	if err := h.nonces.Verify(c.PostForm(content.NonceField), action, userID); err != nil {
		h.logger.Warnw("form rejected: nonce verification failed", "action", action, "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewForbiddenError("Nonce verification failed."))
		return false
	}
	return true
}

// ChangePassword godoc
//
//	@Summary	Change the current member's password
//	@Tags		account
//	@Accept		x-www-form-urlencoded
//	@Param		old_password		formData	string	true	"current password"
//	@Param		new_password		formData	string	true	"new password"
//	@Param		confirm_password	formData	string	true	"new password again"
//	@Param		_nonce				formData	string	true	"rcp_change_password token"
//	@Param		redirect			formData	string	false	"page to return to"
//	@Success	303
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/account/password [post]
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if !h.verifyNonce(c, content.NonceChangePassword, userID) {
		return
	}

	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	target := returnTarget(c, "/")
	err := h.changePasswordUseCase.Execute(c.Request.Context(), userID, account.ChangePasswordCommand{
		OldPassword:     form.OldPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		h.redirectOnError(c, target, err)
		return
	}

	redirectWith(c, target, map[string]string{paramPasswordReset: "true"})
}

// UpdateProfile godoc
//
//	@Summary	Save the profile editor
//	@Tags		account
//	@Accept		x-www-form-urlencoded
//	@Param		email			formData	string	false	"email address"
//	@Param		display_name	formData	string	false	"display name"
//	@Param		_nonce			formData	string	true	"rcp_profile_editor token"
//	@Success	303
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/account/profile [post]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if !h.verifyNonce(c, content.NonceEditProfile, userID) {
		return
	}

	var form UpdateProfileForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	target := returnTarget(c, "/")
	err := h.updateProfileUseCase.Execute(c.Request.Context(), userID, account.UpdateProfileCommand{
		Email:       form.Email,
		DisplayName: form.DisplayName,
	})
	if err != nil {
		h.redirectOnError(c, target, err)
		return
	}

	redirectWith(c, target, map[string]string{paramProfileUpdated: "true"})
}

// UpdateCard godoc
//
//	@Summary		Update the billing card of a PayPal recurring profile
//	@Description	Always ends in a redirect to the submitting page: card=updated, card=not-updated with msg, or no parameters when the member has nothing to update.
//	@Tags			account
//	@Accept			x-www-form-urlencoded
//	@Param			card_number		formData	string	true	"card number"
//	@Param			card_cvc		formData	string	true	"card security code"
//	@Param			card_exp_month	formData	string	true	"expiry month"
//	@Param			card_exp_year	formData	string	true	"expiry year"
//	@Param			card_zip		formData	string	false	"postal code"
//	@Param			_nonce			formData	string	true	"rcp_update_card token"
//	@Success		303
//	@Failure		403	{object}	utils.APIResponse
//	@Failure		429	{object}	utils.APIResponse
//	@Router			/account/card [post]
func (h *AccountHandler) UpdateCard(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if !h.verifyNonce(c, content.NonceUpdateCard, userID) {
		return
	}

	var form UpdateCardForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	target := returnTarget(c, "/")
	result, err := h.updateCardUseCase.Execute(c.Request.Context(), gatewayUsecases.UpdateBillingCardCommand{
		MemberID:   userID,
		CardNumber: form.CardNumber,
		ExpMonth:   form.ExpMonth,
		ExpYear:    form.ExpYear,
		CVC:        form.CVC,
		Zip:        form.Zip,
	})
	if err != nil {
		h.logger.Errorw("card update failed", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	redirectWith(c, target, result.QueryArgs())
}

// redirectOnError sends validation-class failures back to the form with
// their message; anything else is rendered as an error response.
func (h *AccountHandler) redirectOnError(c *gin.Context, target string, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code >= http.StatusInternalServerError {
		h.logger.Errorw("account form failed", "error", err, "path", c.Request.URL.Path)
		utils.ErrorResponseWithError(c, err)
		return
	}
	redirectWith(c, target, map[string]string{paramMessage: appErr.Message})
}
