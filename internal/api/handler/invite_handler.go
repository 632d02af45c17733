package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invite-rsvp/internal/dto"
	"invite-rsvp/internal/service"
	"invite-rsvp/pkg/invitetoken"
	"invite-rsvp/pkg/response"
)

// InviteHandler 邀请确认模块 HTTP 处理器
type InviteHandler struct {
	acceptanceSvc service.AcceptanceService
	tallySvc      service.TallyService
	inviteParam   string // 携带令牌的查询参数名，与落地页一致
	logger        *zap.Logger
}

// NewInviteHandler 创建 InviteHandler
func NewInviteHandler(acceptanceSvc service.AcceptanceService, tallySvc service.TallyService, inviteParam string, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{acceptanceSvc: acceptanceSvc, tallySvc: tallySvc, inviteParam: inviteParam, logger: logger}
}

// Accept 提交出席确认
// POST /api/v1/invites/accept
func (h *InviteHandler) Accept(c *gin.Context) {
	var req dto.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "缺少必填字段")
		return
	}

	result, err := h.acceptanceSvc.Accept(c.Request.Context(), &req)
	if err != nil {
		h.handleInviteError(c, err)
		return
	}

	response.Created(c, result)
}

// List 确认统计与列表
// GET /api/v1/invites/list
func (h *InviteHandler) List(c *gin.Context) {
	tally, err := h.tallySvc.Tally(c.Request.Context())
	if err != nil {
		h.handleInviteError(c, err)
		return
	}

	response.OK(c, tally)
}

// Decode 解析邀请令牌；令牌无效时返回 valid=false 而不是错误
// GET /api/v1/invites/decode?invite=xxx
func (h *InviteHandler) Decode(c *gin.Context) {
	inv, ok := invitetoken.Resolve(c.Query(h.inviteParam), h.logger)
	if !ok {
		response.OK(c, dto.DecodeInviteResponse{Valid: false})
		return
	}

	response.OK(c, dto.DecodeInviteResponse{
		Valid:       true,
		InviteID:    inv.ID,
		InviteCount: inv.Count,
	})
}

func (h *InviteHandler) handleInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		response.BadRequest(c, 10001, "缺少必填字段")
	case errors.Is(err, service.ErrSubmissionInFlight):
		response.Conflict(c, 21002, "该邀请的确认正在提交中，请稍后重试")
	case errors.Is(err, service.ErrSaveAcceptance):
		response.RetryableError(c, http.StatusInternalServerError, 21001, "保存确认失败，请重试")
	case errors.Is(err, service.ErrLoadTally):
		response.RetryableError(c, http.StatusInternalServerError, 21003, "获取确认列表失败，请重试")
	default:
		response.InternalError(c)
	}
}
