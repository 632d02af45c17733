// Package client 调用确认服务 HTTP API（invitectl 使用）。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojektech/heimdall/v6/httpclient"

	"invite-rsvp/internal/dto"
)

// APIError 服务端返回的业务错误
type APIError struct {
	Status    int
	Code      int
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d (code %d): %s", e.Status, e.Code, e.Message)
}

// envelope 统一响应结构
type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Retryable bool            `json:"retryable"`
}

// Client 确认服务 API 客户端
// 不自动重试：提交失败后由用户决定是否重新提交
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// New 创建 Client
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(0),
		),
	}
}

// Submit 提交出席确认，实现 rsvp.Submitter
func (c *Client) Submit(ctx context.Context, req dto.AcceptInviteRequest) (*dto.AcceptanceResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var result dto.AcceptanceResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/invites/accept", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Tally 读取确认统计
func (c *Client) Tally(ctx context.Context) (*dto.TallyResponse, error) {
	var result dto.TallyResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/invites/list", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// 5xx 时 heimdall 可能同时返回响应与错误，以响应体中的业务错误为准
	resp, err := c.http.Do(req)
	if resp == nil {
		return fmt.Errorf("请求 %s 失败: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("解析响应失败: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Retryable: env.Retryable}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("解析响应数据失败: %w", err)
	}
	return nil
}
