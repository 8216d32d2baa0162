package middleware

import (
	"time"

	"go-clockin/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger runs after RequestID and AuthMiddleware. It moves the
// authenticated username into the request context, stores a logger carrying
// the correlation fields and writes one access log line per request.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := c.Request.Context()
		if username := c.GetString("username"); username != "" {
			ctx = contextutil.WithUsername(ctx, username)
		}
		reqLogger := logger.With(contextutil.LogFields(ctx)...)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		reqLogger.Info("request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
