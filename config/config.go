package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Event    EventConfig    `mapstructure:"event"`
	RSVP     RSVPConfig     `mapstructure:"rsvp"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port             int           `mapstructure:"port"`
	BaseURL          string        `mapstructure:"base_url"`
	CORS             CORSConfig    `mapstructure:"cors"`
	AcceptRateLimit  int           `mapstructure:"accept_rate_limit"`  // 窗口内允许的确认提交次数（每 IP）
	AcceptRateWindow time.Duration `mapstructure:"accept_rate_window"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	Timezone        string        `mapstructure:"timezone"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int           `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（限流与提交锁）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EventConfig 活动信息配置（落地页、倒计时、日历文件）
type EventConfig struct {
	Name        string        `mapstructure:"name"`
	Hosts       string        `mapstructure:"hosts"`
	Date        string        `mapstructure:"date"` // 本地时间，格式 2006-01-02T15:04:05
	Timezone    string        `mapstructure:"timezone"`
	Duration    time.Duration `mapstructure:"duration"`
	Location    string        `mapstructure:"location"`
	Address     string        `mapstructure:"address"`
	Description string        `mapstructure:"description"`
	Gallery     []string      `mapstructure:"gallery"`
	InviteParam string        `mapstructure:"invite_param"` // 携带邀请令牌的 URL 参数名
}

// StartsAt 解析活动开始时间
func (e *EventConfig) StartsAt() (time.Time, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的时区 %q: %w", e.Timezone, err)
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", e.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的活动时间 %q: %w", e.Date, err)
	}
	return t, nil
}

// RSVPConfig 确认提交配置
type RSVPConfig struct {
	SubmitTimeout time.Duration `mapstructure:"submit_timeout"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"` // 同一邀请的提交锁有效期
	Cookie        CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig 设备确认标记 Cookie 配置
type CookieConfig struct {
	Secure bool          `mapstructure:"secure"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// envFiles 启动时按顺序尝试加载的环境变量文件（已存在的变量不会被覆盖）
var envFiles = []string{".env.local", ".env"}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("加载环境变量文件 %s 失败: %w", f, err)
		}
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.accept_rate_limit", 10)
	v.SetDefault("server.accept_rate_window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "invite_rsvp")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟
	v.SetDefault("db.query_timeout", "5s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("event.name", "Nuestra celebración")
	v.SetDefault("event.hosts", "")
	v.SetDefault("event.date", "2025-12-20T00:00:00")
	v.SetDefault("event.timezone", "UTC")
	v.SetDefault("event.duration", "6h")
	v.SetDefault("event.location", "")
	v.SetDefault("event.address", "")
	v.SetDefault("event.description", "")
	v.SetDefault("event.gallery", []string{})
	v.SetDefault("event.invite_param", "invite")

	v.SetDefault("rsvp.submit_timeout", "10s")
	v.SetDefault("rsvp.lock_ttl", "15s")
	v.SetDefault("rsvp.cookie.secure", false)
	v.SetDefault("rsvp.cookie.max_age", "8760h") // 一年

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("INVITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if _, err := c.Event.StartsAt(); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	if c.Event.InviteParam == "" {
		return fmt.Errorf("配置校验失败: event.invite_param 不能为空")
	}
	if c.RSVP.SubmitTimeout <= 0 {
		return fmt.Errorf("配置校验失败: rsvp.submit_timeout 必须大于 0")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("配置校验失败: db.query_timeout 必须大于 0")
	}
	return nil
}
