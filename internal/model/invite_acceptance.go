package model

import "time"

// InviteAcceptance 邀请确认记录 — 对应 invite_acceptances
// 记录只插入不修改；invite_id 为邀请令牌原文，不是外键
type InviteAcceptance struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InviteID    string    `gorm:"type:text;not null;index:idx_invite_id"         json:"invite_id"`
	GuestName   string    `gorm:"type:text;not null"                             json:"guest_name"`
	ContactInfo string    `gorm:"type:text;not null"                             json:"contact_info"`
	InviteCount *int      `gorm:"type:integer"                                   json:"invite_count"` // 历史数据可能为空，统计时按 0 计
	AcceptedAt  time.Time `gorm:"type:timestamptz;not null"                      json:"accepted_at"`
}

// TableName 指定表名
func (InviteAcceptance) TableName() string { return "invite_acceptances" }

// Assistants 返回该记录计入的到场人数
func (a *InviteAcceptance) Assistants() int {
	if a.InviteCount == nil {
		return 0
	}
	return *a.InviteCount
}
