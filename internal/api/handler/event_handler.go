package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invite-rsvp/internal/service"
	"invite-rsvp/pkg/response"
)

// EventHandler 活动信息 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
	now      func() time.Time
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, now: time.Now}
}

// Info 活动信息与倒计时
// GET /api/v1/event
func (h *EventHandler) Info(c *gin.Context) {
	info, err := h.eventSvc.Info(h.now())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, info)
}

// Calendar 下载 .ics 日历文件
// GET /event.ics
func (h *EventHandler) Calendar(c *gin.Context) {
	ics, err := h.eventSvc.Calendar(h.now())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=evento.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
