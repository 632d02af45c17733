package rsvp

import (
	"context"
	"sync"
	"time"
)

// Flag 设备本地的"已确认"标记，仅作提示，不保证每个邀请只确认一次
type Flag struct {
	Accepted   bool      `json:"accepted"    yaml:"accepted"`
	AcceptedAt time.Time `json:"accepted_at" yaml:"accepted_at"`
}

// FlagStore 以邀请 ID 为键读写设备标记
type FlagStore interface {
	Get(ctx context.Context, inviteID string) (Flag, bool, error)
	Set(ctx context.Context, inviteID string, flag Flag) error
}

// MemoryFlagStore 内存实现，用于测试与一次性会话
type MemoryFlagStore struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

// NewMemoryFlagStore 创建空的内存标记存储
func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: make(map[string]Flag)}
}

func (s *MemoryFlagStore) Get(_ context.Context, inviteID string) (Flag, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flags[inviteID]
	return f, ok, nil
}

func (s *MemoryFlagStore) Set(_ context.Context, inviteID string, flag Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[inviteID] = flag
	return nil
}

// Clear 删除全部标记（模拟清除浏览器存储）
func (s *MemoryFlagStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = make(map[string]Flag)
}
