package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/internal/dto"
	"invite-rsvp/internal/model"
	"invite-rsvp/internal/repository"
	pkgerrors "invite-rsvp/pkg/errors"
)

// ── 邀请确认模块业务错误 ──

var (
	ErrMissingFields      = errors.New("缺少必填字段")
	ErrSubmissionInFlight = errors.New("该邀请的确认正在提交中")
	ErrSaveAcceptance     = errors.New("保存邀请确认失败")
)

// AcceptanceService 邀请确认业务接口
type AcceptanceService interface {
	// Accept 校验并写入一条确认记录；不做按邀请去重
	Accept(ctx context.Context, req *dto.AcceptInviteRequest) (*dto.AcceptanceResponse, error)
}

type acceptanceService struct {
	repo         *repository.Repository
	locker       SubmissionLocker
	lockTTL      time.Duration
	queryTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewAcceptanceService 创建 AcceptanceService 实例
func NewAcceptanceService(
	repo *repository.Repository,
	locker SubmissionLocker,
	lockTTL, queryTimeout time.Duration,
	logger *zap.Logger,
) AcceptanceService {
	return &acceptanceService{
		repo:         repo,
		locker:       locker,
		lockTTL:      lockTTL,
		queryTimeout: queryTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *acceptanceService) Accept(ctx context.Context, req *dto.AcceptInviteRequest) (*dto.AcceptanceResponse, error) {
	inviteID := strings.TrimSpace(req.InviteID)
	guestName := strings.TrimSpace(req.GuestName)
	contactInfo := strings.TrimSpace(req.ContactInfo)
	if inviteID == "" || guestName == "" || contactInfo == "" || req.InviteCount == nil {
		return nil, ErrMissingFields
	}

	// 同一邀请的并发重复提交（如连续点击）在此拦截，提交结束即释放
	if s.locker != nil && s.lockTTL > 0 {
		release, err := s.locker.AcquireLock(ctx, submitLockKey(inviteID), s.lockTTL)
		switch {
		case errors.Is(err, pkgerrors.ErrLockHeld):
			return nil, ErrSubmissionInFlight
		case err != nil:
			s.logger.Warn("获取提交锁失败，降级为无锁提交", zap.Error(err))
		default:
			defer release()
		}
	}

	count := *req.InviteCount
	rec := &model.InviteAcceptance{
		InviteID:    inviteID,
		GuestName:   guestName,
		ContactInfo: contactInfo,
		InviteCount: &count,
		AcceptedAt:  s.now().UTC(),
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Acceptance.Create(qctx, rec); err != nil {
		s.logger.Error("保存邀请确认失败",
			zap.String("invite_key", submitLockKey(inviteID)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrSaveAcceptance, err)
	}

	s.logger.Info("邀请确认已保存",
		zap.String("id", rec.ID),
		zap.Int("invite_count", count),
	)

	return toAcceptanceResponse(rec), nil
}

// submitLockKey 令牌可能较长，锁键使用其摘要
func submitLockKey(inviteID string) string {
	sum := sha256.Sum256([]byte(inviteID))
	return "rsvp:submit:" + hex.EncodeToString(sum[:8])
}

func toAcceptanceResponse(rec *model.InviteAcceptance) *dto.AcceptanceResponse {
	return &dto.AcceptanceResponse{
		ID:          rec.ID,
		InviteID:    rec.InviteID,
		GuestName:   rec.GuestName,
		ContactInfo: rec.ContactInfo,
		InviteCount: rec.InviteCount,
		AcceptedAt:  rec.AcceptedAt.UTC().Format(timeFormat),
	}
}
