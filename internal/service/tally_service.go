package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/internal/dto"
	"invite-rsvp/internal/model"
	"invite-rsvp/internal/repository"
)

// ── 统计模块业务错误 ──

var (
	ErrLoadTally = errors.New("获取确认列表失败")
)

// TallyService 确认统计业务接口
type TallyService interface {
	// Tally 读取全部确认记录（最新在前）并汇总确认数与到场人数
	Tally(ctx context.Context) (*dto.TallyResponse, error)
}

type tallyService struct {
	repo         *repository.Repository
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewTallyService 创建 TallyService 实例
func NewTallyService(repo *repository.Repository, queryTimeout time.Duration, logger *zap.Logger) TallyService {
	return &tallyService{repo: repo, queryTimeout: queryTimeout, logger: logger}
}

func (s *tallyService) Tally(ctx context.Context) (*dto.TallyResponse, error) {
	list, err := listAcceptances(ctx, s.repo, s.queryTimeout)
	if err != nil {
		s.logger.Error("查询邀请确认失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLoadTally, err)
	}
	return buildTally(list), nil
}

func listAcceptances(ctx context.Context, repo *repository.Repository, timeout time.Duration) ([]model.InviteAcceptance, error) {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return repo.Acceptance.ListAll(qctx)
}

// buildTally 确认数为记录条数，到场人数为 invite_count 之和（空值按 0）
func buildTally(list []model.InviteAcceptance) *dto.TallyResponse {
	resp := &dto.TallyResponse{
		TotalConfirmations: len(list),
		Invites:            make([]dto.AcceptanceResponse, 0, len(list)),
	}
	for i := range list {
		resp.TotalAssistants += list[i].Assistants()
		resp.Invites = append(resp.Invites, *toAcceptanceResponse(&list[i]))
	}
	return resp
}
