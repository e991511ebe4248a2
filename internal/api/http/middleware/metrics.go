package middleware

import (
	"time"

	"github.com/dappforge/dappforge-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request latency per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
