// Package invitetoken 邀请令牌编解码
//
// 令牌格式：base64( {"invites": n} )，令牌原文即邀请 ID。
// 令牌不做签名，任何人都可以构造任意人数的令牌（已知信任缺口，不在此处修补）。
package invitetoken

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrNoToken           = errors.New("未携带邀请令牌")
	ErrMalformedEncoding = errors.New("邀请令牌编码无效")
	ErrMalformedPayload  = errors.New("邀请令牌内容无效")
	ErrMissingInvites    = errors.New("邀请令牌缺少 invites 字段")
	ErrInvalidInvites    = errors.New("邀请令牌 invites 字段不是整数")
)

// Invite 解码后的邀请上下文
type Invite struct {
	ID    string // 规范化后的令牌原文
	Count int    // 分配的人数，原样使用，不做上下限校验
}

// Payload 令牌承载的数据
type Payload struct {
	Invites int `json:"invites"`
}

// 依次尝试的 base64 字母表：浏览器 btoa 产出标准字母表，Encode 产出 URL 安全无填充
var encodings = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// Encode 生成携带 invites 人数的令牌
func Encode(invites int) string {
	b, _ := json.Marshal(Payload{Invites: invites})
	return base64.RawURLEncoding.EncodeToString(b)
}

// Normalize 去除首尾空白，并还原查询串解码时被替换为空格的 '+'
func Normalize(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), " ", "+")
}

// Decode 解码令牌
// 失败时返回 ErrNoToken / ErrMalformedEncoding / ErrMalformedPayload /
// ErrMissingInvites / ErrInvalidInvites 之一，调用方通过 errors.Is 区分
func Decode(raw string) (Invite, error) {
	token := Normalize(raw)
	if token == "" {
		return Invite{}, ErrNoToken
	}

	data, err := decodeBase64(token)
	if err != nil {
		return Invite{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Invite{}, ErrMalformedPayload
	}

	rawInvites, ok := fields["invites"]
	if !ok || string(rawInvites) == "null" {
		return Invite{}, ErrMissingInvites
	}

	count, err := parseCount(rawInvites)
	if err != nil {
		return Invite{}, err
	}

	return Invite{ID: token, Count: count}, nil
}

// Resolve 解码令牌并在失败时降级为"无邀请上下文"
// 除 ErrNoToken 外的失败都会记录警告日志，便于排查
func Resolve(raw string, logger *zap.Logger) (Invite, bool) {
	inv, err := Decode(raw)
	switch {
	case err == nil:
		return inv, true
	case errors.Is(err, ErrNoToken):
		return Invite{}, false
	default:
		logger.Warn("邀请令牌解码失败，按无邀请处理",
			zap.Error(err),
			zap.Int("token_len", len(raw)),
		)
		return Invite{}, false
	}
}

// InviteURL 生成带令牌参数的邀请链接
func InviteURL(baseURL, param, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("无效的基础地址 %q: %w", baseURL, err)
	}
	q := u.Query()
	q.Set(param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decodeBase64(token string) ([]byte, error) {
	for _, enc := range encodings {
		if data, err := enc.DecodeString(token); err == nil {
			return data, nil
		}
	}
	return nil, ErrMalformedEncoding
}

func parseCount(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, ErrInvalidInvites
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, ErrInvalidInvites
	}

	if n, err := num.Int64(); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, ErrInvalidInvites
		}
		return int(n), nil
	}

	// 允许 4.0 这类整数值浮点数
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrInvalidInvites
	}
	return int(f), nil
}
