package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDKey is the key used to store trace ID in context
	TraceIDKey = "trace_id"
	// TraceIDHeader is the HTTP header name for trace ID
	TraceIDHeader = "X-Trace-ID"
	// RequestTimeKey is the key used to store request start time
	RequestTimeKey = "request_time"
)

// TraceID tags each request with a trace id, reusing the caller's X-Trace-ID
// when present. The same id is attached to the command log line and audit event.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Set(RequestTimeKey, time.Now())

		c.Next()
	}
}

// GetTraceID extracts trace ID from gin context
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

// GetRequestTime extracts request start time from gin context
func GetRequestTime(c *gin.Context) time.Time {
	if t, ok := c.Get(RequestTimeKey); ok {
		if start, ok := t.(time.Time); ok {
			return start
		}
	}
	return time.Now()
}
