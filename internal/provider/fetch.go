package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	maxBodyBytes  = 4 << 20
	maxErrorBytes = 512
)

// GetJSON 发起一次 GET，把 2xx 响应体解码到 dst。
//
// - 非 2xx：返回 *HTTPStatusError（携带截断后的响应体）
// - transport 错误：*url.Error 中的 URL 会去除凭据后再返回
// - 响应体不是合法 JSON：返回解码错误
func GetJSON(ctx context.Context, c *http.Client, rawURL string, dst any) error {
	if c == nil {
		return errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("构造请求失败：%w", redactErr(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return redactErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return &HTTPStatusError{
			URL:        RedactURL(rawURL),
			StatusCode: resp.StatusCode,
			Body:       string(b),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("解析 JSON 失败：%w", err)
	}
	return nil
}

func redactErr(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactURL(ue.URL)
	}
	return err
}
