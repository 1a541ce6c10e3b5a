package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/membergate/membergate/internal/application/content"
	"github.com/membergate/membergate/internal/interfaces/http/middleware"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type viewerResolver interface {
	Viewer(ctx context.Context, userID uint) (content.Viewer, error)
}

type tagRenderer interface {
	Render(ctx context.Context, req *content.Request) (string, error)
	Tags() []string
}

type ContentHandler struct {
	viewers  viewerResolver
	renderer tagRenderer
	logger   logger.Interface
}

func NewContentHandler(viewers viewerResolver, renderer tagRenderer, logger logger.Interface) *ContentHandler {
	return &ContentHandler{viewers: viewers, renderer: renderer, logger: logger}
}

// RenderRequest is one tag occurrence in a page.
type RenderRequest struct {
	Tag     string            `json:"tag" binding:"required" example:"restrict"`
	Attrs   map[string]string `json:"attrs"`
	Content string            `json:"content"`
	// CurrentURL is the page the tag appears on; forms post back to it.
	CurrentURL string `json:"current_url" example:"/members/welcome?card=updated"`
}

type RenderResponse struct {
	HTML string `json:"html"`
}

// Render godoc
//
//	@Summary		Render a content tag for the current viewer
//	@Description	Evaluates gating predicates for the session member (or an anonymous visitor) and returns the HTML the tag expands to.
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RenderRequest	true	"tag, attributes and enclosed content"
//	@Success		200		{object}	utils.APIResponse{data=RenderResponse}
//	@Failure		400		{object}	utils.APIResponse
//	@Router			/content/render [post]
func (h *ContentHandler) Render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	viewer, err := h.viewers.Viewer(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	currentURL := utils.LocalRedirectTarget(req.CurrentURL, c.Request.Host, "/")
	query := url.Values{}
	if u, err := url.Parse(currentURL); err == nil {
		query = u.Query()
	}

	html, err := h.renderer.Render(c.Request.Context(), &content.Request{
		Tag:        req.Tag,
		Attrs:      req.Attrs,
		Content:    req.Content,
		Viewer:     viewer,
		CurrentURL: currentURL,
		Query:      query,
	})
	if err != nil {
		if errors.Is(err, content.ErrUnknownTag) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", RenderResponse{HTML: html})
}

// Tags lists the registered tag names.
//
//	@Summary	List content tags
//	@Tags		content
//	@Produce	json
//	@Success	200	{object}	utils.APIResponse
//	@Router		/content/tags [get]
func (h *ContentHandler) Tags(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"tags": h.renderer.Tags()})
}
