//go:build integration

package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"invite-rsvp/config"
	pkgerrors "invite-rsvp/pkg/errors"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop())
	if err != nil {
		t.Skipf("Redis 不可用: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCheckRateLimit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := fmt.Sprintf("rate_limit:test:%d", time.Now().UnixNano())

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit 失败: %v", err)
		}
		if !ok {
			t.Fatalf("第 %d 次请求应被放行", i+1)
		}
	}

	ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit 失败: %v", err)
	}
	if ok {
		t.Error("超出限额后应拒绝")
	}
}

func TestAcquireLock(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := fmt.Sprintf("rsvp:submit:test-%d", time.Now().UnixNano())

	release, err := c.AcquireLock(ctx, key, 5*time.Second)
	if err != nil {
		t.Fatalf("首次加锁失败: %v", err)
	}

	if _, err := c.AcquireLock(ctx, key, 5*time.Second); !errors.Is(err, pkgerrors.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}

	release()

	release2, err := c.AcquireLock(ctx, key, 5*time.Second)
	if err != nil {
		t.Fatalf("释放后应可再次加锁: %v", err)
	}
	release2()
}
