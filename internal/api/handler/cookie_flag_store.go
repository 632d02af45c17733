package handler

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invite-rsvp/internal/rsvp"
)

// cookieFlagStore 以 Cookie 保存设备确认标记，每个邀请一个 Cookie
type cookieFlagStore struct {
	c      *gin.Context
	secure bool
	maxAge time.Duration
}

// flagCookieName 令牌含有 Cookie 名不允许的字符，取哈希前缀作为名称
func flagCookieName(inviteID string) string {
	sum := sha256.Sum256([]byte(inviteID))
	return "rsvp_" + hex.EncodeToString(sum[:8])
}

func (s *cookieFlagStore) Get(_ context.Context, inviteID string) (rsvp.Flag, bool, error) {
	raw, err := s.c.Cookie(flagCookieName(inviteID))
	if errors.Is(err, http.ErrNoCookie) {
		return rsvp.Flag{}, false, nil
	}
	if err != nil {
		return rsvp.Flag{}, false, err
	}

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return rsvp.Flag{}, false, fmt.Errorf("确认标记 Cookie 编码无效: %w", err)
	}
	var flag rsvp.Flag
	if err := json.Unmarshal(b, &flag); err != nil {
		return rsvp.Flag{}, false, fmt.Errorf("确认标记 Cookie 内容无效: %w", err)
	}
	return flag, true, nil
}

func (s *cookieFlagStore) Set(_ context.Context, inviteID string, flag rsvp.Flag) error {
	b, err := json.Marshal(flag)
	if err != nil {
		return err
	}
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(flagCookieName(inviteID), base64.RawURLEncoding.EncodeToString(b),
		int(s.maxAge/time.Second), "/", "", s.secure, true)
	return nil
}
