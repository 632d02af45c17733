package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"total": 3})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != 0 || resp.Message != "success" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name   string
		fn     func(c *gin.Context)
		status    int
		code      int
		retryable bool
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, 10001, "x") }, http.StatusBadRequest, 10001, false},
		{"conflict", func(c *gin.Context) { Conflict(c, 21002, "x") }, http.StatusConflict, 21002, true},
		{"too many", TooManyRequests, http.StatusTooManyRequests, 10004, true},
		{"internal", InternalError, http.StatusInternalServerError, 50000, false},
		{"save failed", func(c *gin.Context) { RetryableError(c, http.StatusInternalServerError, 21001, "x") }, http.StatusInternalServerError, 21001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tc.fn(c)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
			resp := decode(t, w)
			if resp.Code != tc.code {
				t.Errorf("expected code %d, got %d", tc.code, resp.Code)
			}
			if resp.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v", tc.retryable)
			}
		})
	}
}
