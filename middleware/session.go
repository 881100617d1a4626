package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UsernameKey is the gin context key holding the acting username
	UsernameKey = "username"
	// UsernameHeader names the acting account on command requests
	UsernameHeader = "X-Username"
)

// Session records the acting username from the X-Username header, falling
// back to the username query parameter (browsers cannot set headers on a
// WebSocket handshake). There is no authentication: the name is trusted.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.GetHeader(UsernameHeader))
		if username == "" {
			username = strings.TrimSpace(c.Query("username"))
		}
		if username != "" {
			c.Set(UsernameKey, strings.TrimPrefix(username, "@"))
		}
		c.Next()
	}
}

// GetUsername returns the username recorded by Session
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
