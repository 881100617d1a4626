package server

import (
	"net/http"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/Digital-Creators-Team/stakes-engine/middleware"
	"github.com/gin-gonic/gin"
)

// CommandContextMiddleware injects a game.CommandContext built from the trace
// id and session username. It must run after middleware.TraceID and
// middleware.Session. Requests without a username are rejected.
func (a *App) CommandContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.GetUsername(c)
		if username == "" {
			BadRequest(c, errors.New(errors.ErrInvalidRequest,
				"username is required (X-Username header or username query)"))
			c.Abort()
			return
		}

		source := game.SourceHTTP
		if c.Request.Method == http.MethodGet {
			source = game.SourceWebSocket
		}

		traceID := middleware.GetTraceID(c)
		logger := logging.WithUsername(logging.WithTraceID(a.logger, traceID), username)

		cc := game.NewCommandContext(logger, traceID, username, source)
		c.Request = c.Request.WithContext(game.WithContext(c.Request.Context(), cc))

		c.Next()
	}
}
