package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invite-rsvp/pkg/response"
)

// RateLimiter 滑动窗口限流器，由 Redis 客户端实现
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP + 路由限流
// limiter 为 nil 或 Redis 出错时降级放行；onLimited 为 nil 时返回 JSON 429，否则由其渲染响应
func RateLimit(limiter RateLimiter, limit int, window time.Duration, logger *zap.Logger, onLimited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			if onLimited != nil {
				onLimited(c)
			} else {
				response.TooManyRequests(c)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
