package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invite-rsvp/config"
	"invite-rsvp/internal/rsvp"
	"invite-rsvp/internal/service"
	"invite-rsvp/internal/web"
	"invite-rsvp/pkg/invitetoken"
)

// WebHandler 服务端渲染页面：落地页、表单提交、确认统计页
// 每个请求新建 Recorder，不在请求之间共享可变状态
type WebHandler struct {
	acceptanceSvc service.AcceptanceService
	tallySvc      service.TallyService
	eventSvc      service.EventService
	inviteParam   string
	submitTimeout time.Duration
	cookie        config.CookieConfig
	logger        *zap.Logger
	now           func() time.Time
}

// NewWebHandler 创建 WebHandler
func NewWebHandler(cfg *config.Config, svc *service.Service, logger *zap.Logger) *WebHandler {
	return &WebHandler{
		acceptanceSvc: svc.Acceptance,
		tallySvc:      svc.Tally,
		eventSvc:      svc.Event,
		inviteParam:   cfg.Event.InviteParam,
		submitTimeout: cfg.RSVP.SubmitTimeout,
		cookie:        cfg.RSVP.Cookie,
		logger:        logger,
		now:           time.Now,
	}
}

// rsvpForm 落地页表单
type rsvpForm struct {
	Invite      string `form:"invite"`
	GuestName   string `form:"guest_name"`
	ContactInfo string `form:"contact_info"`
}

// Home 落地页
// GET /?invite=xxx
func (h *WebHandler) Home(c *gin.Context) {
	inv, ok := invitetoken.Resolve(c.Query(h.inviteParam), h.logger)
	view := h.newRecorder(c).Load(c.Request.Context(), inv, ok)

	h.renderHome(c, http.StatusOK, h.homePage(view))
}

// SubmitRSVP 落地页表单提交，成功后重定向回落地页（PRG）
// POST /rsvp
func (h *WebHandler) SubmitRSVP(c *gin.Context) {
	var form rsvpForm
	if err := c.ShouldBind(&form); err != nil {
		page := h.homePage(rsvp.View{State: rsvp.StateNoInvite})
		page.Error = "No pudimos leer el formulario. Intenta de nuevo."
		h.renderHome(c, http.StatusBadRequest, page)
		return
	}

	inv, ok := invitetoken.Resolve(form.Invite, h.logger)
	_, err := h.newRecorder(c).Submit(c.Request.Context(), inv, ok, rsvp.Form{
		GuestName:   form.GuestName,
		ContactInfo: form.ContactInfo,
	})
	if err == nil {
		c.Redirect(http.StatusSeeOther, h.homeURL(inv.ID))
		return
	}

	state := rsvp.StateForm
	if errors.Is(err, rsvp.ErrNoInvite) {
		state = rsvp.StateNoInvite
	}
	page := h.homePage(rsvp.View{State: state, Invite: inv})
	page.GuestName = form.GuestName
	page.ContactInfo = form.ContactInfo
	page.Retry = rsvp.IsRetryable(err)

	status, msg := webSubmitError(err)
	page.Error = msg
	h.renderHome(c, status, page)
}

// SubmitRateLimited 表单提交被限流时渲染落地页，保留已填写的内容
func (h *WebHandler) SubmitRateLimited(c *gin.Context) {
	var form rsvpForm
	_ = c.ShouldBind(&form)

	h.renderRejectedSubmit(c, http.StatusTooManyRequests,
		"Demasiados intentos. Espera un momento e intenta de nuevo.", form)
}

// SubmitTooLarge 表单请求体超限时渲染落地页；请求体未读取，令牌取自提交地址的查询参数
func (h *WebHandler) SubmitTooLarge(c *gin.Context) {
	form := rsvpForm{Invite: c.Query(h.inviteParam)}

	h.renderRejectedSubmit(c, http.StatusRequestEntityTooLarge,
		"El formulario es demasiado grande. Revisa tus datos e intenta de nuevo.", form)
}

func (h *WebHandler) renderRejectedSubmit(c *gin.Context, status int, msg string, form rsvpForm) {
	inv, ok := invitetoken.Resolve(form.Invite, h.logger)
	state := rsvp.StateNoInvite
	if ok {
		state = rsvp.StateForm
	}

	page := h.homePage(rsvp.View{State: state, Invite: inv})
	page.GuestName = form.GuestName
	page.ContactInfo = form.ContactInfo
	page.Error = msg
	page.Retry = true
	h.renderHome(c, status, page)
}

// Invites 确认统计页；读取失败时只显示错误和重试链接
// GET /invites
func (h *WebHandler) Invites(c *gin.Context) {
	tally, err := h.tallySvc.Tally(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "invites.html", web.InvitesPage{
			Error: "No se pudieron cargar las confirmaciones.",
		})
		return
	}

	c.HTML(http.StatusOK, "invites.html", web.InvitesPage{Tally: tally})
}

func (h *WebHandler) newRecorder(c *gin.Context) *rsvp.Recorder {
	flags := &cookieFlagStore{c: c, secure: h.cookie.Secure, maxAge: h.cookie.MaxAge}
	return rsvp.NewRecorder(rsvp.ServiceSubmitter{Acceptance: h.acceptanceSvc}, flags, h.submitTimeout, h.logger)
}

func (h *WebHandler) homePage(view rsvp.View) web.HomePage {
	page := web.HomePage{
		State:       view.State.String(),
		InviteToken: view.Invite.ID,
		InviteCount: view.Invite.Count,
		SubmitURL:   h.submitURL(view.Invite.ID),
	}
	if view.State == rsvp.StateConfirmed && !view.Flag.AcceptedAt.IsZero() {
		page.AcceptedAt = view.Flag.AcceptedAt.Format("02/01/2006")
	}

	event, err := h.eventSvc.Info(h.now())
	if err != nil {
		h.logger.Error("获取活动信息失败", zap.Error(err))
	} else {
		page.Event = event
	}
	return page
}

func (h *WebHandler) renderHome(c *gin.Context, status int, page web.HomePage) {
	c.HTML(status, "home.html", page)
}

func (h *WebHandler) homeURL(token string) string {
	return "/?" + url.Values{h.inviteParam: {token}}.Encode()
}

func (h *WebHandler) submitURL(token string) string {
	if token == "" {
		return "/rsvp"
	}
	return "/rsvp?" + url.Values{h.inviteParam: {token}}.Encode()
}

// webSubmitError 提交错误对应的状态码与页面提示
func webSubmitError(err error) (int, string) {
	switch {
	case errors.Is(err, rsvp.ErrNoInvite):
		return http.StatusBadRequest, "Necesitas un enlace de invitación válido para confirmar."
	case errors.Is(err, rsvp.ErrGuestNameRequired):
		return http.StatusBadRequest, "Por favor escribe tu nombre."
	case errors.Is(err, rsvp.ErrContactInfoRequired):
		return http.StatusBadRequest, "Por favor escribe un correo o teléfono de contacto."
	case errors.Is(err, rsvp.ErrSubmitInFlight), errors.Is(err, service.ErrSubmissionInFlight):
		return http.StatusConflict, "Tu confirmación se está enviando. Espera un momento e intenta de nuevo."
	default:
		return http.StatusInternalServerError, "No pudimos guardar tu confirmación. Intenta de nuevo."
	}
}
