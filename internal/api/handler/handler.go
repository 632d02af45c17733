package handler

import (
	"go.uber.org/zap"

	"invite-rsvp/config"
	"invite-rsvp/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Invite *InviteHandler
	Export *ExportHandler
	Event  *EventHandler
	Web    *WebHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Invite: NewInviteHandler(svc.Acceptance, svc.Tally, cfg.Event.InviteParam, logger),
		Export: NewExportHandler(svc.Export),
		Event:  NewEventHandler(svc.Event),
		Web:    NewWebHandler(cfg, svc, logger),
	}
}
