package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Describe 把上游错误转换为可操作的一句话说明（用于日志与展示层提示）。
func Describe(providerName string, err error) string {
	if err == nil {
		return providerName + " 请求失败"
	}

	var ae *APIError
	if errors.As(err, &ae) {
		return fmt.Sprintf("%s 返回错误：%s", providerName, strings.TrimSpace(ae.Message))
	}

	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		switch hs.StatusCode {
		case 401:
			return fmt.Sprintf("%s 返回 HTTP 401（api key 无效或缺失）。请检查配置。", providerName)
		case 403, 429:
			return fmt.Sprintf("%s 返回 HTTP %d（配额耗尽或被限流）。", providerName, hs.StatusCode)
		case 404:
			return fmt.Sprintf("%s 返回 HTTP 404（资源不存在）。", providerName)
		default:
			return fmt.Sprintf("%s 返回 HTTP %d。", providerName, hs.StatusCode)
		}
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Sprintf("%s 请求已取消。", providerName)
	}
	low := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(low, "timeout") {
		return fmt.Sprintf("%s 请求超时。建议检查网络/代理。", providerName)
	}
	if strings.Contains(low, "tls") || strings.Contains(low, "handshake") {
		return fmt.Sprintf("%s 连接失败（TLS）。建议配置 proxy.url 或稍后重试。", providerName)
	}
	if strings.Contains(low, "解析 json") {
		return fmt.Sprintf("%s 返回了非预期的内容：%v", providerName, err)
	}
	return fmt.Sprintf("%s 请求失败：%v", providerName, err)
}
