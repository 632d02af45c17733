// Package shared holds the context passed to all invitectl commands.
package shared

import (
	"time"

	"go.uber.org/zap"

	"invite-rsvp/config"
	"invite-rsvp/internal/client"
	"invite-rsvp/internal/rsvp"
	applogger "invite-rsvp/pkg/logger"
)

// Context 根命令上的全局参数
type Context struct {
	// ServerURL 确认服务地址
	ServerURL string
	// ConfigPath 服务端配置文件（migrate 使用），为空时按默认路径查找
	ConfigPath string
	// FlagFile 本机确认标记文件，为空时使用 ~/.config/invitectl/accepted.yaml
	FlagFile string
	Timeout  time.Duration
	Verbose  bool
}

// Client 创建 API 客户端
func (c *Context) Client() *client.Client {
	return client.New(c.ServerURL, c.Timeout)
}

// FlagStore 打开本机确认标记文件
func (c *Context) FlagStore() (*rsvp.FileFlagStore, error) {
	path := c.FlagFile
	if path == "" {
		var err error
		if path, err = rsvp.DefaultFlagPath(); err != nil {
			return nil, err
		}
	}
	return rsvp.NewFileFlagStore(path), nil
}

// Logger 控制台日志，默认只输出警告以上
func (c *Context) Logger() *zap.Logger {
	level := "warn"
	if c.Verbose {
		level = "debug"
	}
	logger, err := applogger.NewLogger(&config.LogConfig{Level: level, Format: "console"}, "invitectl")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
