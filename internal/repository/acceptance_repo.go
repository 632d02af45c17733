package repository

import (
	"context"

	"gorm.io/gorm"

	"invite-rsvp/internal/model"
)

// AcceptanceRepository 邀请确认数据访问接口
// 仅提供插入与全量查询，记录写入后不可修改
type AcceptanceRepository interface {
	Create(ctx context.Context, rec *model.InviteAcceptance) error
	// ListAll 按 accepted_at 倒序返回全部记录
	ListAll(ctx context.Context) ([]model.InviteAcceptance, error)
}

type acceptanceRepo struct {
	db *gorm.DB
}

// NewAcceptanceRepo 创建 AcceptanceRepository 实例
func NewAcceptanceRepo(db *gorm.DB) AcceptanceRepository {
	return &acceptanceRepo{db: db}
}

func (r *acceptanceRepo) Create(ctx context.Context, rec *model.InviteAcceptance) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *acceptanceRepo) ListAll(ctx context.Context) ([]model.InviteAcceptance, error) {
	var list []model.InviteAcceptance
	err := r.db.WithContext(ctx).
		Order("accepted_at DESC").
		Find(&list).Error
	return list, err
}
