package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"invite-rsvp/config"
	pkgerrors "invite-rsvp/pkg/errors"
)

// Client Redis 客户端封装
// 用于确认接口限流与同一邀请的提交锁；不可用时调用方降级放行
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger, now: time.Now}, nil
}

// ── 滑动窗口限流 ──

// rateLimitScript 清理窗口外记录后计数，未超限时才记入本次请求
// 被拒绝的请求不占用窗口，窗口过后即可重试
var rateLimitScript = goredis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
if redis.call("ZCARD", KEYS[1]) < tonumber(ARGV[3]) then
	redis.call("ZADD", KEYS[1], ARGV[2], ARGV[4])
	redis.call("PEXPIRE", KEYS[1], ARGV[5])
	return 1
end
return 0
`)

// CheckRateLimit 基于有序集合的滑动窗口计数（毫秒精度）
// 返回 true 表示本次请求在 limit 以内
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := c.now()
	windowStart := now.Add(-window).UnixMilli()

	allowed, err := rateLimitScript.Run(ctx, c.rdb, []string{key},
		windowStart,
		now.UnixMilli(),
		limit,
		uuid.NewString(),
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// ── 提交锁 ──

const lockPrefix = "lock:"

// releaseScript 仅当锁仍由当前持有者持有时删除
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLock 以 SET NX PX 获取锁，成功时返回释放函数
// 锁已被持有时返回 pkgerrors.ErrLockHeld
func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	owner := uuid.NewString()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, owner, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.ErrLockHeld
	}

	release := func() {
		// 请求上下文可能已取消，释放使用独立的短超时
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, c.rdb, []string{lockPrefix + key}, owner).Err(); err != nil {
			c.logger.Warn("释放提交锁失败", zap.String("key", key), zap.Error(err))
		}
	}
	return release, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
