package server

import (
	"time"

	"fitstudio/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggingMiddleware tags each request with an id, echoed back in
// X-Request-ID, and logs it once the handler has finished.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		logger.Info("HTTP request", requestLogAttrs(c, requestID, time.Since(start))...)
	}
}

// requestLogAttrs leaves out the query string; it carries client emails.
func requestLogAttrs(c *gin.Context, requestID string, latency time.Duration) []any {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	return []any{
		"request_id", requestID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", route,
		"status", c.Writer.Status(),
		"latency_ms", latency.Milliseconds(),
		"client_ip", c.ClientIP(),
	}
}
