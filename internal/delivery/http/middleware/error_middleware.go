package middleware

import (
	"errors"
	"net/http"

	"github.com/rajayush01/JobBoard/internal/delivery/http/response"
	"github.com/rajayush01/JobBoard/pkg/apperror"
	"github.com/rajayush01/JobBoard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler maps errors attached to the gin context onto the response
// envelope. Internal errors are logged server-side; the client only sees the
// underlying text in development mode.
func ErrorHandler(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == http.StatusInternalServerError {
				logger.Log.Error("Internal server error", "error", appErr.Err, "path", c.FullPath())
				if devMode && appErr.Err != nil {
					response.Error(c, appErr.Code, appErr.Message, appErr.Err.Error())
					return
				}
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("Unhandled error", "error", err, "path", c.FullPath())
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
