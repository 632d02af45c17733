package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 请求日志中间件
// 不记录查询串（邀请令牌在查询参数中）；skipPaths 中的路径仅在出错时记录
func Logger(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[c.Request.URL.Path]; ok && status < http.StatusBadRequest {
			return
		}

		level, msg := zapcore.InfoLevel, "请求完成"
		switch {
		case status >= http.StatusInternalServerError:
			level, msg = zapcore.ErrorLevel, "请求处理失败"
		case status >= http.StatusBadRequest:
			level, msg = zapcore.WarnLevel, "客户端错误"
		}

		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetRequestID(c)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}
		ce.Write(fields...)
	}
}
