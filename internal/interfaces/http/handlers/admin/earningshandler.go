package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	adminApp "github.com/membergate/membergate/internal/application/admin"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

type earningsTotaler interface {
	Total(ctx context.Context, q adminApp.EarningsQuery) (int64, error)
}

type EarningsHandler struct {
	earnings earningsTotaler
	currency string
	logger   logger.Interface
}

func NewEarningsHandler(earnings earningsTotaler, currency string, logger logger.Interface) *EarningsHandler {
	return &EarningsHandler{earnings: earnings, currency: currency, logger: logger}
}

type EarningsResponse struct {
	// Total is in hundredths of the currency unit.
	Total     int64  `json:"total"`
	Formatted string `json:"formatted"`
	Currency  string `json:"currency"`
}

// Total godoc
//
//	@Summary	Sum of completed payments
//	@Tags		admin
//	@Produce	json
//	@Param		subscription	query		string	false	"level name"
//	@Param		user_id			query		int		false	"member id"
//	@Param		year			query		int		false	"year"
//	@Param		month			query		int		false	"month (1-12)"
//	@Success	200				{object}	utils.APIResponse{data=EarningsResponse}
//	@Failure	400				{object}	utils.APIResponse
//	@Router		/admin/earnings [get]
func (h *EarningsHandler) Total(c *gin.Context) {
	var q adminApp.EarningsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(q); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	total, err := h.earnings.Total(c.Request.Context(), q)
	if err != nil {
		h.logger.Errorw("failed to compute earnings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", EarningsResponse{
		Total:     total,
		Formatted: utils.FormatPrice(total, h.currency),
		Currency:  h.currency,
	})
}
