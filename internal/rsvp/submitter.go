package rsvp

import (
	"context"

	"invite-rsvp/internal/dto"
	"invite-rsvp/internal/service"
)

// ServiceSubmitter 进程内提交，直接调用 AcceptanceService（服务端渲染页面使用）
type ServiceSubmitter struct {
	Acceptance service.AcceptanceService
}

func (s ServiceSubmitter) Submit(ctx context.Context, req dto.AcceptInviteRequest) (*dto.AcceptanceResponse, error) {
	return s.Acceptance.Accept(ctx, &req)
}
