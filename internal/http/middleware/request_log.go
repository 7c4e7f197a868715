package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// RequestLogger logs one line per request after the handler chain ran.
// Server faults log at error, client faults at warn, the rest at info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := ctxutil.UserID(c.Request.Context()); userID != uuid.Nil {
			fields = append(fields, "user_id", userID.String())
		}

		switch {
		case status >= 500:
			requestLog.Error("HTTP request", fields...)
		case status >= 400:
			requestLog.Warn("HTTP request", fields...)
		default:
			requestLog.Info("HTTP request", fields...)
		}
	}
}
