package rsvp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileFlagStore 以 YAML 文件保存设备标记（invitectl 使用）
type FileFlagStore struct {
	path string
}

// NewFileFlagStore 创建基于 path 的文件标记存储，文件不存在时视为空
func NewFileFlagStore(path string) *FileFlagStore {
	return &FileFlagStore{path: path}
}

// DefaultFlagPath 返回 ~/.config/invitectl/accepted.yaml
func DefaultFlagPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "invitectl", "accepted.yaml"), nil
}

func (s *FileFlagStore) load() (map[string]Flag, error) {
	flags := make(map[string]Flag)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return flags, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("解析标记文件 %s 失败: %w", s.path, err)
	}
	if flags == nil {
		flags = make(map[string]Flag)
	}
	return flags, nil
}

func (s *FileFlagStore) Get(_ context.Context, inviteID string) (Flag, bool, error) {
	flags, err := s.load()
	if err != nil {
		return Flag{}, false, err
	}
	f, ok := flags[inviteID]
	return f, ok, nil
}

func (s *FileFlagStore) Set(_ context.Context, inviteID string, flag Flag) error {
	flags, err := s.load()
	if err != nil {
		return err
	}
	flags[inviteID] = flag

	data, err := yaml.Marshal(flags)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	// 先写临时文件再改名，避免中断时留下半截文件
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
