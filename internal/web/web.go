// Package web 服务端渲染页面的模板与页面数据。
package web

import (
	"embed"
	"html/template"

	"invite-rsvp/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// HomePage 落地页数据
type HomePage struct {
	State       string // no_invite / form / confirmed
	Event       *dto.EventResponse
	InviteToken string
	InviteCount int
	SubmitURL   string // 表单提交地址，查询参数携带令牌，请求体无法读取时仍可还原邀请

	GuestName   string
	ContactInfo string
	Error       string
	Retry       bool
	AcceptedAt  string
}

// InvitesPage 确认统计页数据；Error 非空时不渲染统计
type InvitesPage struct {
	Tally *dto.TallyResponse
	Error string
}

// Templates 解析内嵌模板，模板名为文件名（home.html、invites.html）
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"count": count,
	}).ParseFS(templateFS, "templates/*.html")
}

func count(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
