package dto

// ── 邀请确认模块 DTO ──

// AcceptInviteRequest 确认出席请求
// invite_count 使用指针区分"未提供"与 0
type AcceptInviteRequest struct {
	InviteID    string `json:"invite_id"    form:"invite_id"    binding:"required"`
	GuestName   string `json:"guest_name"   form:"guest_name"   binding:"required"`
	ContactInfo string `json:"contact_info" form:"contact_info" binding:"required"`
	InviteCount *int   `json:"invite_count" form:"invite_count" binding:"required"`
}

// AcceptanceResponse 确认记录响应
type AcceptanceResponse struct {
	ID          string `json:"id"`
	InviteID    string `json:"invite_id"`
	GuestName   string `json:"guest_name"`
	ContactInfo string `json:"contact_info"`
	InviteCount *int   `json:"invite_count"`
	AcceptedAt  string `json:"accepted_at"`
}

// TallyResponse 确认统计响应
type TallyResponse struct {
	TotalConfirmations int                  `json:"totalConfirmations"`
	TotalAssistants    int                  `json:"totalAssistants"`
	Invites            []AcceptanceResponse `json:"invites"`
}

// DecodeInviteResponse 令牌解码结果
type DecodeInviteResponse struct {
	Valid       bool   `json:"valid"`
	InviteID    string `json:"invite_id,omitempty"`
	InviteCount int    `json:"invite_count,omitempty"`
}
