package middleware

import (
	"fmt"
	"time"

	"mahindaexpress/internal/utils"

	"github.com/gin-gonic/gin"
)

// Logger emits one line per request through the shared event logger, so HTTP
// traffic and service events share a log shape.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		msg := fmt.Sprintf("method=%s path=%s status=%d latency_ms=%.3f ip=%s",
			c.Request.Method, path, c.Writer.Status(),
			float64(time.Since(start).Microseconds())/1000.0, c.ClientIP())
		if last := c.Errors.Last(); last != nil {
			msg += " err=" + last.Error()
		}
		utils.LogEvent(GetRequestID(c), "http", "request", msg)
	}
}
