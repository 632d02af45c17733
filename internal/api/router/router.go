package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invite-rsvp/config"
	"invite-rsvp/internal/api/handler"
	"invite-rsvp/internal/api/middleware"
	"invite-rsvp/internal/web"
	"invite-rsvp/pkg/database"
)

// maxBodyBytes 确认表单与 JSON 请求体上限
const maxBodyBytes = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；db 为 nil 时健康检查不探测数据库
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// API 返回 JSON 信封；表单提交被拒绝时渲染落地页
	apiBodyLimit := middleware.BodyLimit(maxBodyBytes, nil)
	apiAcceptLimit := middleware.RateLimit(limiter, cfg.Server.AcceptRateLimit, cfg.Server.AcceptRateWindow, logger, nil)
	formBodyLimit := middleware.BodyLimit(maxBodyBytes, h.Web.SubmitTooLarge)
	formAcceptLimit := middleware.RateLimit(limiter, cfg.Server.AcceptRateLimit, cfg.Server.AcceptRateWindow, logger, h.Web.SubmitRateLimited)

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				logger.Warn("健康检查: 数据库不可用", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 页面 ──
	r.GET("/", h.Web.Home)
	r.POST("/rsvp", formBodyLimit, formAcceptLimit, h.Web.SubmitRSVP)
	r.GET("/invites", h.Web.Invites)
	r.GET("/event.ics", h.Event.Calendar)

	// ── API v1 ──
	v1 := r.Group("/api/v1", apiBodyLimit)
	{
		// 邀请确认模块
		invites := v1.Group("/invites")
		{
			invites.POST("/accept", apiAcceptLimit, h.Invite.Accept)
			invites.GET("/list", h.Invite.List)
			invites.GET("/export", h.Export.ExportAcceptances)
			invites.GET("/decode", h.Invite.Decode)
		}

		// 活动信息
		v1.GET("/event", h.Event.Info)
	}

	return r, nil
}
