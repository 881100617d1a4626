package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/types"
	"github.com/gin-gonic/gin"
)

// Timeout puts a deadline on the request context. Handlers run inline; if the
// deadline passed and nothing was written yet, the request gets a 408.
// A zero timeout disables the middleware.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusRequestTimeout, types.ErrorResponse{
				StatusCode: http.StatusRequestTimeout,
				IsSuccess:  false,
				Error: types.ErrorDetail{
					Timestamp:    time.Now().Format(time.RFC3339),
					Path:         c.Request.URL.Path,
					ErrorMessage: "Request timeout",
					ErrorCode:    errors.ErrServiceUnavailable,
					TraceID:      GetTraceID(c),
				},
			})
		}
	}
}
