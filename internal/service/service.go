package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/config"
	"invite-rsvp/internal/repository"
)

// SubmissionLocker 提交锁，由 Redis 客户端实现；为 nil 时不加锁
type SubmissionLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Acceptance AcceptanceService
	Tally      TallyService
	Export     ExportService
	Event      EventService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	locker SubmissionLocker,
	logger *zap.Logger,
) *Service {
	return &Service{
		Acceptance: NewAcceptanceService(repo, locker, cfg.RSVP.LockTTL, cfg.Database.QueryTimeout, logger),
		Tally:      NewTallyService(repo, cfg.Database.QueryTimeout, logger),
		Export:     NewExportService(repo, cfg.Database.QueryTimeout, logger),
		Event:      NewEventService(&cfg.Event, cfg.Server.BaseURL),
	}
}

// timeFormat 对外输出的时间格式
const timeFormat = time.RFC3339
