package middleware

import (
	"time"

	"go-leaveflow/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if uid := contextutil.GetUserID(c.Request.Context()); uid != 0 {
			fields = append(fields, zap.Uint("user_id", uid))
		}

		contextutil.GetLogger(c.Request.Context(), logger).Info("http_request", fields...)
	}
}
