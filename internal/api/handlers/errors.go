package handlers

import (
	"context"
	"errors"

	"pantry-finder/internal/core/recipe"
	"pantry-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ToCustomError 將錯誤對應到 API 錯誤。
// 逾時與取消優先於外部查詢錯誤判斷，RemoteLookupError 可能包著請求的 context 錯誤。
func ToCustomError(err error) *common.CustomError {
	var ce *common.CustomError
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, context.Canceled):
		return common.ErrRequestTimeout.Wrap(err)
	case recipe.IsRemoteLookupError(err):
		return common.ErrUpstreamUnavailable.Wrap(err)
	case common.IsValidationError(err):
		return common.ErrInvalidRequest.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}

// WriteError 寫入錯誤響應；debug 模式下附帶原始錯誤
func WriteError(c *gin.Context, err error, debug bool) {
	ce := ToCustomError(err)

	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	}
	if ce.Status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}
