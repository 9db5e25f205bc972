package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "mvx/1.0 (+https://github.com/SagarThayat/movie-explorer-app)"

	defaultRetryDelay = 300 * time.Millisecond
)

// Transport 把“UA + 代理 + keep-alive 策略 + 有界重试”固化为统一策略。
//
// 设计目标：provider 只负责“拼 URL + 解析 JSON”，不关心网络策略细节。
type Transport struct {
	Base *http.Transport

	UserAgent string

	// RetryMax 表示最大重试次数（不含首次尝试）。默认 0：每个请求只尝试一次。
	RetryMax   int
	RetryDelay time.Duration

	// DisableKeepAlives 决定是否对 Request 设置 Close=true（额外保险）。
	// 真正禁用 keep-alive 依赖 Base.DisableKeepAlives。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// 只对“可重放”的请求做重试：GET/HEAD 且无 body。
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}
	delay := t.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	return retry.DoWithData(
		func() (*http.Response, error) {
			r := req.Clone(req.Context())
			if r.Header.Get("User-Agent") == "" {
				r.Header.Set("User-Agent", t.userAgent())
			}
			if t.DisableKeepAlives {
				r.Close = true
			}
			return t.Base.RoundTrip(r)
		},
		retry.Attempts(uint(max+1)),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		// ctx 已取消：不再重试，直接返回最后错误（更可解释）。
		retry.RetryIf(func(error) bool { return req.Context().Err() == nil }),
	)
}

func (t *Transport) userAgent() string {
	if ua := strings.TrimSpace(t.UserAgent); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

// Options 描述上游 API client 的网络策略；零值可用。
type Options struct {
	ProxyURL string
	Timeout  time.Duration
	RetryMax int
}

// NewAPIClient 构造三个上游（catalog / video-search / ratings）共用的 HTTP client。
//
// 规则：
// - ProxyURL 非空：必须走代理，且禁用 keep-alive（每请求新连接）
// - 固定 UA；有界重试（默认不重试）+ 总超时
func NewAPIClient(opts Options) (*http.Client, error) {
	proxyURL := strings.TrimSpace(opts.ProxyURL)

	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConnsPerHost:   16,
	}

	disableKeepAlives := false
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.New("proxy url 缺少 scheme 或 host")
		}
		base.Proxy = http.ProxyURL(u)
		// proxy 模式强制每请求新连接（代理池轮换依赖该行为）。
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tr := &Transport{
		Base:              base,
		UserAgent:         DefaultUserAgent,
		RetryMax:          opts.RetryMax,
		DisableKeepAlives: disableKeepAlives,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
