package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// Logger 记录每个观察接口请求
func Logger(logger log.Logger) gin.HandlerFunc {
	zl := logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			zl.Error("HTTP request", fields...)
		case status >= 400:
			zl.Warn("HTTP request", fields...)
		default:
			zl.Debug("HTTP request", fields...)
		}
	}
}
