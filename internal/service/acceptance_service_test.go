package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/internal/dto"
	"invite-rsvp/internal/repository"
)

// ── 测试辅助 ──

func setupTestAcceptanceService(locker SubmissionLocker) (*acceptanceService, *mockAcceptanceRepo) {
	accRepo := newMockAcceptanceRepo()
	repo := &repository.Repository{Acceptance: accRepo}
	svc := NewAcceptanceService(repo, locker, 15*time.Second, time.Second, zap.NewNop()).(*acceptanceService)
	svc.now = func() time.Time { return time.Date(2025, 11, 1, 18, 30, 0, 0, time.UTC) }
	return svc, accRepo
}

func validRequest() *dto.AcceptInviteRequest {
	return &dto.AcceptInviteRequest{
		InviteID:    "eyJpbnZpdGVzIjo0fQ",
		GuestName:   "Ana Lopez",
		ContactInfo: "ana@example.com",
		InviteCount: intPtr(4),
	}
}

// ── Accept 测试 ──

func TestAcceptanceService_Accept_Success(t *testing.T) {
	svc, accRepo := setupTestAcceptanceService(nil)

	req := validRequest()
	req.GuestName = "  Ana Lopez  "
	req.ContactInfo = "\tana@example.com\n"

	result, err := svc.Accept(context.Background(), req)
	if err != nil {
		t.Fatalf("Accept 应成功: %v", err)
	}
	if result.ID == "" {
		t.Error("期望生成记录 ID")
	}
	if result.GuestName != "Ana Lopez" || result.ContactInfo != "ana@example.com" {
		t.Errorf("期望字段去除首尾空白，实际 name=%q contact=%q", result.GuestName, result.ContactInfo)
	}
	if result.InviteCount == nil || *result.InviteCount != 4 {
		t.Errorf("期望 InviteCount=4，实际=%v", result.InviteCount)
	}
	if result.AcceptedAt != "2025-11-01T18:30:00Z" {
		t.Errorf("期望服务端时间写入 AcceptedAt，实际=%s", result.AcceptedAt)
	}
	if len(accRepo.records) != 1 {
		t.Fatalf("期望写入 1 条记录，实际=%d", len(accRepo.records))
	}
	if accRepo.records[0].InviteID != "eyJpbnZpdGVzIjo0fQ" {
		t.Errorf("期望 InviteID 为令牌原文，实际=%s", accRepo.records[0].InviteID)
	}
}

func TestAcceptanceService_Accept_MissingFields(t *testing.T) {
	cases := map[string]func(r *dto.AcceptInviteRequest){
		"空邀请ID":   func(r *dto.AcceptInviteRequest) { r.InviteID = "" },
		"空白姓名":    func(r *dto.AcceptInviteRequest) { r.GuestName = "   " },
		"空白联系方式":  func(r *dto.AcceptInviteRequest) { r.ContactInfo = "\t" },
		"缺少人数":    func(r *dto.AcceptInviteRequest) { r.InviteCount = nil },
		"全部为空白字符": func(r *dto.AcceptInviteRequest) { r.InviteID, r.GuestName, r.ContactInfo = " ", " ", " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, accRepo := setupTestAcceptanceService(nil)
			req := validRequest()
			mutate(req)

			_, err := svc.Accept(context.Background(), req)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("期望 ErrMissingFields，实际: %v", err)
			}
			if accRepo.creates != 0 {
				t.Error("校验失败时不应访问数据库")
			}
		})
	}
}

func TestAcceptanceService_Accept_SaveFailure(t *testing.T) {
	svc, accRepo := setupTestAcceptanceService(nil)
	accRepo.createErr = errors.New("connection refused")

	_, err := svc.Accept(context.Background(), validRequest())
	if !errors.Is(err, ErrSaveAcceptance) {
		t.Errorf("期望 ErrSaveAcceptance，实际: %v", err)
	}
	if len(accRepo.records) != 0 {
		t.Error("失败时不应产生记录")
	}
}

func TestAcceptanceService_Accept_ResubmitAllowed(t *testing.T) {
	svc, accRepo := setupTestAcceptanceService(newMockLocker())

	for i := 0; i < 2; i++ {
		if _, err := svc.Accept(context.Background(), validRequest()); err != nil {
			t.Fatalf("第 %d 次提交应成功: %v", i+1, err)
		}
	}
	if len(accRepo.records) != 2 {
		t.Errorf("服务端不做去重，期望 2 条记录，实际=%d", len(accRepo.records))
	}
}

func TestAcceptanceService_Accept_LockReleased(t *testing.T) {
	locker := newMockLocker()
	svc, accRepo := setupTestAcceptanceService(locker)
	accRepo.createErr = errors.New("timeout")

	_, _ = svc.Accept(context.Background(), validRequest())

	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("期望获取并释放锁各 1 次，实际 acquired=%d released=%d", locker.acquired, locker.released)
	}
}

func TestAcceptanceService_Accept_InFlight(t *testing.T) {
	locker := newMockLocker()
	svc, accRepo := setupTestAcceptanceService(locker)
	locker.held[submitLockKey("eyJpbnZpdGVzIjo0fQ")] = true

	_, err := svc.Accept(context.Background(), validRequest())
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("期望 ErrSubmissionInFlight，实际: %v", err)
	}
	if accRepo.creates != 0 {
		t.Error("锁被占用时不应写入")
	}
}

func TestAcceptanceService_Accept_LockErrorDegrades(t *testing.T) {
	locker := newMockLocker()
	locker.err = errors.New("redis down")
	svc, accRepo := setupTestAcceptanceService(locker)

	if _, err := svc.Accept(context.Background(), validRequest()); err != nil {
		t.Fatalf("Redis 故障时应降级提交: %v", err)
	}
	if len(accRepo.records) != 1 {
		t.Errorf("期望 1 条记录，实际=%d", len(accRepo.records))
	}
}

func TestSubmitLockKey_Stable(t *testing.T) {
	a := submitLockKey("token-a")
	if a != submitLockKey("token-a") {
		t.Error("同一令牌应得到同一锁键")
	}
	if a == submitLockKey("token-b") {
		t.Error("不同令牌应得到不同锁键")
	}
}
