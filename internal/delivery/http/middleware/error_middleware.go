package middleware

import (
	"errors"
	"net/http"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(c, "request failed",
					"path", c.FullPath(), "error", err, "cause", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, reasonPayload(appErr.Reason))
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Resource not found", nil)
		case errors.Is(err, domain.ErrStorageUnavailable):
			logger.Log.ErrorContext(c, "storage unavailable", "path", c.FullPath(), "error", err)
			response.Error(c, http.StatusInternalServerError, "Storage temporarily unavailable",
				reasonPayload(apperror.ReasonStorageUnavailable))
		default:
			// Never expose internal error details to clients.
			logger.Log.ErrorContext(c, "internal server error", "path", c.FullPath(), "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}

func reasonPayload(reason string) interface{} {
	if reason == "" {
		return nil
	}
	return gin.H{"reason": reason}
}
