package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// HTTPStatusError 表示上游返回了非 2xx 的 HTTP 状态码。
// URL 已去除凭据（api_key 等），可以直接写日志。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string // 截断后的响应体，便于定位（例如 TMDB 的 status_message）
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, body)
}

// APIError 表示上游以 2xx 返回了“错误载荷”（例如 OMDb 的 {"Response":"False","Error":"..."}）。
type APIError struct {
	Provider string
	Message  string
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "unknown error"
	}
	return e.Provider + ": " + msg
}

// credentialParams 是三个上游使用的凭据参数名（TMDB: api_key，OMDb: apikey，YouTube: key）。
var credentialParams = []string{"api_key", "apikey", "key"}

// RedactURL 把 URL 中的凭据参数替换为 "REDACTED"；解析失败时返回空串，避免泄漏。
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range credentialParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
