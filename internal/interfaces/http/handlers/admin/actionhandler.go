// Package admin holds the HTTP entry points of the admin screens.
package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	adminApp "github.com/membergate/membergate/internal/application/admin"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

// PagePath is the admin screen every action redirects back to; the target
// screen travels in the page query parameter.
const PagePath = "/admin"

type dispatcher interface {
	Dispatch(ctx context.Context, req adminApp.Request) (*adminApp.Result, error)
}

type ActionHandler struct {
	dispatcher dispatcher
	logger     logger.Interface
}

func NewActionHandler(dispatcher dispatcher, logger logger.Interface) *ActionHandler {
	return &ActionHandler{dispatcher: dispatcher, logger: logger}
}

// Submit godoc
//
//	@Summary		Run an admin form action
//	@Description	The action is named by rcp-action, or bulk-edit when rcp-bulk-action is present. Ends in a redirect carrying rcp_message.
//	@Tags			admin
//	@Accept			x-www-form-urlencoded
//	@Param			rcp-action		formData	string	false	"action name"
//	@Param			rcp-bulk-action	formData	string	false	"bulk member action"
//	@Success		303
//	@Failure		400	{object}	utils.APIResponse
//	@Failure		403	{object}	utils.APIResponse
//	@Router			/admin/actions [post]
func (h *ActionHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid form")
		return
	}
	form := c.Request.PostForm

	h.dispatch(c, adminApp.ResolvePostAction(form), form)
}

// Link godoc
//
//	@Summary		Run a single-item admin action
//	@Description	The query names one of the link actions with the item id as its value, e.g. ?activate_member=7&_nonce=...
//	@Tags			admin
//	@Param			_nonce	query	string	true	"rcp_member_action, rcp_level_action or rcp_discount_action token"
//	@Success		303
//	@Failure		400	{object}	utils.APIResponse
//	@Failure		403	{object}	utils.APIResponse
//	@Router			/admin/actions [get]
func (h *ActionHandler) Link(c *gin.Context) {
	action, input := adminApp.ResolveGetAction(c.Request.URL.Query())
	if action == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "no admin action given")
		return
	}
	h.dispatch(c, action, input)
}

func (h *ActionHandler) dispatch(c *gin.Context, action string, input url.Values) {
	result, err := h.dispatcher.Dispatch(c.Request.Context(), adminApp.Request{
		ActorID: middleware.CurrentUserID(c),
		Action:  action,
		Input:   input,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, RedirectURL(result))
}

// RedirectURL builds the admin screen address for result.
func RedirectURL(result *adminApp.Result) string {
	args := make(map[string]string, len(result.Params)+1)
	for k, v := range result.Params {
		args[k] = v
	}
	args["page"] = result.Page
	return utils.AddQueryArgs(PagePath, args)
}
