package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"invite-rsvp/config"
)

// newMiniClient 基于 miniredis 的客户端，时钟由测试控制
func newMiniClient(t *testing.T) (*Client, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient 失败: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	clock := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, mr, &clock
}

func TestCheckRateLimit_RejectedRequestsDoNotExtendWindow(t *testing.T) {
	c, mr, clock := newMiniClient(t)
	ctx := context.Background()
	key := "rate_limit:10.0.0.1:/rsvp"
	window := 300 * time.Millisecond
	start := *clock

	cases := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{100 * time.Millisecond, false},
		{200 * time.Millisecond, false},
		{300 * time.Millisecond, true}, // 距上次放行已满一个窗口
		{400 * time.Millisecond, false},
		{500 * time.Millisecond, false},
		{600 * time.Millisecond, true},
	}
	for _, tc := range cases {
		*clock = start.Add(tc.at)
		ok, err := c.CheckRateLimit(ctx, key, 1, window)
		if err != nil {
			t.Fatalf("t=%v: CheckRateLimit 失败: %v", tc.at, err)
		}
		if ok != tc.want {
			t.Errorf("t=%v: expected allowed=%v, got %v", tc.at, tc.want, ok)
		}
	}

	members, err := mr.ZMembers(key)
	if err != nil {
		t.Fatalf("读取有序集合失败: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("被拒绝的请求不应写入窗口, got %d members", len(members))
	}
}

func TestCheckRateLimit_LimitPerWindow(t *testing.T) {
	c, mr, _ := newMiniClient(t)
	ctx := context.Background()
	key := "rate_limit:10.0.0.2:/api/v1/invites/accept"

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit 失败: %v", err)
		}
		if !ok {
			t.Fatalf("第 %d 次请求应被放行", i+1)
		}
	}
	if ok, _ := c.CheckRateLimit(ctx, key, 3, time.Minute); ok {
		t.Error("超出限额后应拒绝")
	}

	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Errorf("键应随窗口过期, ttl=%v", ttl)
	}
}

func TestCheckRateLimit_RedisDown(t *testing.T) {
	c, mr, _ := newMiniClient(t)
	mr.Close()

	if _, err := c.CheckRateLimit(context.Background(), "rate_limit:x:/rsvp", 1, time.Minute); err == nil {
		t.Error("Redis 不可用时应返回错误，由中间件降级放行")
	}
}
