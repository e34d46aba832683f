package middleware

import (
	"strconv"
	"time"

	"mahindaexpress/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request duration per method and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
