package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"invite-rsvp/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Event.InviteParam != "invite" {
		t.Errorf("expected invite param 'invite', got %q", cfg.Event.InviteParam)
	}
	if cfg.RSVP.SubmitTimeout != 10*time.Second {
		t.Errorf("expected submit timeout 10s, got %v", cfg.RSVP.SubmitTimeout)
	}
	if cfg.Database.QueryTimeout != 5*time.Second {
		t.Errorf("expected query timeout 5s, got %v", cfg.Database.QueryTimeout)
	}

	startsAt, err := cfg.Event.StartsAt()
	if err != nil {
		t.Fatalf("解析活动时间失败: %v", err)
	}
	if !startsAt.Equal(time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected default event date %v", startsAt)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9000\nevent:\n  name: Boda de Ana y Luis\n  date: \"2026-03-14T18:30:00\"\n  timezone: America/Mexico_City\n  gallery:\n    - /img/1.jpg\n    - /img/2.jpg\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Run("配置文件覆盖默认值", func(t *testing.T) {
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("加载配置失败: %v", err)
		}
		if cfg.Server.Port != 9000 {
			t.Errorf("expected port 9000, got %d", cfg.Server.Port)
		}
		if cfg.Event.Name != "Boda de Ana y Luis" {
			t.Errorf("unexpected event name %q", cfg.Event.Name)
		}
		if !reflect.DeepEqual(cfg.Event.Gallery, []string{"/img/1.jpg", "/img/2.jpg"}) {
			t.Errorf("unexpected gallery %v", cfg.Event.Gallery)
		}

		startsAt, err := cfg.Event.StartsAt()
		if err != nil {
			t.Fatalf("解析活动时间失败: %v", err)
		}
		if startsAt.Location().String() != "America/Mexico_City" {
			t.Errorf("unexpected location %s", startsAt.Location())
		}
	})

	t.Run("环境变量覆盖配置文件", func(t *testing.T) {
		t.Setenv("INVITE_SERVER_PORT", "9100")
		t.Setenv("INVITE_RSVP_SUBMIT_TIMEOUT", "3s")
		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("加载配置失败: %v", err)
		}
		if cfg.Server.Port != 9100 {
			t.Errorf("expected port 9100, got %d", cfg.Server.Port)
		}
		if cfg.RSVP.SubmitTimeout != 3*time.Second {
			t.Errorf("expected submit timeout 3s, got %v", cfg.RSVP.SubmitTimeout)
		}
	})
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"端口越界", func(cfg *config.Config) { cfg.Server.Port = 70000 }},
		{"未知时区", func(cfg *config.Config) { cfg.Event.Timezone = "Mars/Olympus" }},
		{"活动时间格式错误", func(cfg *config.Config) { cfg.Event.Date = "20/12/2025" }},
		{"参数名为空", func(cfg *config.Config) { cfg.Event.InviteParam = "" }},
		{"提交超时为零", func(cfg *config.Config) { cfg.RSVP.SubmitTimeout = 0 }},
		{"查询超时为零", func(cfg *config.Config) { cfg.Database.QueryTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load("")
			if err != nil {
				t.Fatalf("加载默认配置失败: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
