package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构 {code, message, data}
// Retryable 为 true 时表示原样重新提交可能成功（保存失败、提交冲突、限流）
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// ── 成功响应 ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Code: 0, Message: "success", Data: data})
}

// ── 错误响应 ──

// Error 不可重试的错误
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// RetryableError 可重试的错误，客户端可保留表单内容后重新提交
func RetryableError(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Retryable: true})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Conflict 409，提交冲突稍后可重试
func Conflict(c *gin.Context, code int, message string) {
	RetryableError(c, http.StatusConflict, code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	RetryableError(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}
