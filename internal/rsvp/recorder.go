// Package rsvp 确认出席的调用方流程：表单前置校验、单次提交锁、设备标记。
//
// 服务端不做按邀请去重；同一设备上"已确认"的提示完全依赖 FlagStore。
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/internal/dto"
	"invite-rsvp/pkg/invitetoken"
)

var (
	ErrNoInvite            = errors.New("需要有效的邀请链接")
	ErrGuestNameRequired   = errors.New("请填写姓名")
	ErrContactInfoRequired = errors.New("请填写联系方式")
	ErrSubmitInFlight      = errors.New("正在提交，请稍候")
	ErrSubmitFailed        = errors.New("提交失败，请重试")
)

// State 页面状态
type State int

const (
	StateNoInvite  State = iota // 未携带或无法解析邀请令牌
	StateForm                   // 显示确认表单
	StateConfirmed              // 本设备已确认过
)

func (s State) String() string {
	switch s {
	case StateNoInvite:
		return "no_invite"
	case StateForm:
		return "form"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// View 加载页面时的渲染依据
type View struct {
	State  State
	Invite invitetoken.Invite
	Flag   Flag
}

// Form 用户填写的表单
type Form struct {
	GuestName   string
	ContactInfo string
}

// Submitter 持久化边界
type Submitter interface {
	Submit(ctx context.Context, req dto.AcceptInviteRequest) (*dto.AcceptanceResponse, error)
}

// Recorder 一个会话内的确认流程；同一 Recorder 同时只允许一次提交
type Recorder struct {
	submitter Submitter
	flags     FlagStore
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
	inFlight  atomic.Bool
}

// NewRecorder 创建 Recorder；timeout <= 0 时不额外设置超时
func NewRecorder(submitter Submitter, flags FlagStore, timeout time.Duration, logger *zap.Logger) *Recorder {
	return &Recorder{
		submitter: submitter,
		flags:     flags,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Load 根据邀请上下文与设备标记决定页面状态
// 标记读取失败时按未确认处理，仍显示表单
func (r *Recorder) Load(ctx context.Context, inv invitetoken.Invite, ok bool) View {
	if !ok {
		return View{State: StateNoInvite}
	}

	flag, found, err := r.flags.Get(ctx, inv.ID)
	if err != nil {
		r.logger.Warn("读取设备确认标记失败", zap.Error(err))
		return View{State: StateForm, Invite: inv}
	}
	if found && flag.Accepted {
		return View{State: StateConfirmed, Invite: inv, Flag: flag}
	}
	return View{State: StateForm, Invite: inv}
}

// Submit 依次校验邀请、姓名、联系方式后提交
// 前置校验失败不会发起请求；提交失败返回包装 ErrSubmitFailed 的错误且不写标记
func (r *Recorder) Submit(ctx context.Context, inv invitetoken.Invite, ok bool, form Form) (*dto.AcceptanceResponse, error) {
	if !ok {
		return nil, ErrNoInvite
	}
	name := strings.TrimSpace(form.GuestName)
	if name == "" {
		return nil, ErrGuestNameRequired
	}
	contact := strings.TrimSpace(form.ContactInfo)
	if contact == "" {
		return nil, ErrContactInfoRequired
	}

	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer r.inFlight.Store(false)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	count := inv.Count
	result, err := r.submitter.Submit(ctx, dto.AcceptInviteRequest{
		InviteID:    inv.ID,
		GuestName:   name,
		ContactInfo: contact,
		InviteCount: &count,
	})
	if err != nil {
		r.logger.Warn("确认提交失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	flag := Flag{Accepted: true, AcceptedAt: r.now().UTC()}
	if err := r.flags.Set(ctx, inv.ID, flag); err != nil {
		// 记录已写入，标记失败只影响下次是否再显示表单
		r.logger.Warn("写入设备确认标记失败", zap.Error(err))
	}

	return result, nil
}

// InFlight 是否有提交正在进行（用于禁用提交按钮）
func (r *Recorder) InFlight() bool {
	return r.inFlight.Load()
}

// IsRetryable 判断错误是否可由用户重新提交同一表单恢复
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSubmitFailed) || errors.Is(err, ErrSubmitInFlight)
}

// IsValidation 判断是否为前置校验错误
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoInvite) ||
		errors.Is(err, ErrGuestNameRequired) ||
		errors.Is(err, ErrContactInfoRequired)
}
