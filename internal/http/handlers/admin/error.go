package admin

import (
	"errors"

	handlershared "github.com/cangku-next/internal/http/handlers/shared"
	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// respondServiceError 把 service 层错误映射到统一响应码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrBackOrderNotFound),
		errors.Is(err, service.ErrPickListNotFound),
		errors.Is(err, service.ErrPickItemNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrOrderInvalid),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrPickReasonRequired),
		errors.Is(err, service.ErrPackageInvalid),
		errors.Is(err, service.ErrAdminInvalid):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrOrderStatusInvalid),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrBackOrderStatusInvalid),
		errors.Is(err, service.ErrPickListStatusInvalid),
		errors.Is(err, service.ErrPickItemProcessed):
		respondError(c, response.CodeConflict, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "内部错误", err)
	}
}
