package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invite-rsvp/pkg/response"
)

// BodyLimit 请求体大小限制
// 声明的 Content-Length 超限时直接返回 413；未声明长度时读取超限由 MaxBytesReader 截断，绑定失败按参数错误处理
// onTooLarge 为 nil 时返回 JSON 413，否则由其渲染响应（此时请求体未读取）
func BodyLimit(maxBytes int64, onTooLarge gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			if onTooLarge != nil {
				onTooLarge(c)
			} else {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			}
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
