//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invite-rsvp/internal/model"
	"invite-rsvp/internal/repository"
	"invite-rsvp/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=invite_rsvp_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 表结构由迁移文件维护
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// uniqueInvite 生成本次测试专用的 invite_id 并注册清理
func uniqueInvite(t *testing.T) string {
	t.Helper()
	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		testDB.Exec("DELETE FROM invite_acceptances WHERE invite_id = ?", id)
	})
	return id
}

func intPtr(v int) *int { return &v }

// ═══════════════════════════════════════════════════════════
// AcceptanceRepository
// ═══════════════════════════════════════════════════════════

func TestAcceptanceRepo_CreateAssignsID(t *testing.T) {
	repo := repository.NewAcceptanceRepo(testDB)
	ctx := context.Background()
	inviteID := uniqueInvite(t)

	rec := &model.InviteAcceptance{
		InviteID:    inviteID,
		GuestName:   "Lucía",
		ContactInfo: "lucia@example.com",
		InviteCount: intPtr(3),
		AcceptedAt:  time.Now().UTC(),
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if rec.ID == "" {
		t.Error("插入后应回填数据库生成的 id")
	}
}

func TestAcceptanceRepo_DuplicateInviteAllowed(t *testing.T) {
	repo := repository.NewAcceptanceRepo(testDB)
	ctx := context.Background()
	inviteID := uniqueInvite(t)

	for i := 0; i < 2; i++ {
		err := repo.Create(ctx, &model.InviteAcceptance{
			InviteID:    inviteID,
			GuestName:   "Ana",
			ContactInfo: "ana@example.com",
			InviteCount: intPtr(2),
			AcceptedAt:  time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("第 %d 次插入失败: %v", i+1, err)
		}
	}

	var n int64
	testDB.Model(&model.InviteAcceptance{}).Where("invite_id = ?", inviteID).Count(&n)
	if n != 2 {
		t.Errorf("同一邀请应允许多条记录, got %d", n)
	}
}

func TestAcceptanceRepo_ListAllNewestFirst(t *testing.T) {
	repo := repository.NewAcceptanceRepo(testDB)
	ctx := context.Background()
	inviteID := uniqueInvite(t)

	base := time.Now().UTC().Add(time.Hour)
	for i, name := range []string{"primero", "segundo", "tercero"} {
		err := repo.Create(ctx, &model.InviteAcceptance{
			InviteID:    inviteID,
			GuestName:   name,
			ContactInfo: "x",
			InviteCount: intPtr(1),
			AcceptedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create 失败: %v", err)
		}
	}

	list, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll 失败: %v", err)
	}

	var ours []string
	for i := range list {
		if i > 0 && list[i].AcceptedAt.After(list[i-1].AcceptedAt) {
			t.Fatal("ListAll 应按 accepted_at 倒序")
		}
		if list[i].InviteID == inviteID {
			ours = append(ours, list[i].GuestName)
		}
	}
	if len(ours) != 3 || ours[0] != "tercero" || ours[2] != "primero" {
		t.Errorf("unexpected order %v", ours)
	}
}
