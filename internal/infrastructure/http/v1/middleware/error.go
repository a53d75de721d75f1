package middleware

import (
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/infrastructure/http/v1/dto"
	"folio/pkg/logger"
)

// ErrorHandler turns errors recorded on the gin context into the response
// envelope. It is the only place that writes error bodies. With devMode the
// underlying cause is included in details.
func ErrorHandler(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(ctx, "unhandled error", "error", err)
			appErr = apperror.NewInternal(err)
		}

		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error(ctx, "request failed",
				"code", appErr.Code,
				"error", appErr.Message,
				"cause", appErr.Err,
			)
		}

		details := appErr.Details
		if devMode && appErr.Err != nil {
			details = maps.Clone(details)
			if details == nil {
				details = make(map[string]any, 1)
			}
			details["cause"] = appErr.Err.Error()
		}
		if appErr.Code == apperror.CodeInternal {
			if details == nil {
				details = make(map[string]any, 1)
			}
			details["request_id"] = c.GetString("request_id")
		}

		c.JSON(appErr.HTTPStatus, dto.Fail(appErr.Code, appErr.Message, details))
	}
}
