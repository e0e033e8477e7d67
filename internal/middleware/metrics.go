package middleware

import (
	"strconv" // Status code labels
	"time"    // Latency measurement

	"github.com/gin-gonic/gin" // Gin web framework

	"trusty_wallet/internal/metrics" // Prometheus collectors
)

// MetricsMiddleware observes request latency by method, route pattern and status
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched" // Keep label cardinality bounded
		}
		metrics.RequestLatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
