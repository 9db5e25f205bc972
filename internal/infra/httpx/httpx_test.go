package httpx

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAPIClient_ProxyDisablesKeepAlive(t *testing.T) {
	c, err := NewAPIClient(Options{ProxyURL: "http://127.0.0.1:8080"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	if tr.Base.Proxy == nil {
		t.Fatalf("期望启用代理，但 Proxy=nil")
	}
	if !tr.Base.DisableKeepAlives {
		t.Fatalf("期望禁用 keep-alive，但 Base.DisableKeepAlives=false")
	}
	if !tr.DisableKeepAlives {
		t.Fatalf("期望设置 Request.Close=true 的额外保险，但 DisableKeepAlives=false")
	}
}

func TestNewAPIClient_Defaults(t *testing.T) {
	c, err := NewAPIClient(Options{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	if tr.Base.Proxy != nil {
		t.Fatalf("不期望启用代理，但 Proxy!=nil")
	}
	if tr.Base.DisableKeepAlives {
		t.Fatalf("不期望禁用 keep-alive，但 Base.DisableKeepAlives=true")
	}
	if tr.RetryMax != 0 {
		t.Fatalf("默认不应重试，实际 RetryMax=%d", tr.RetryMax)
	}
	if c.Timeout != DefaultTimeout {
		t.Fatalf("期望默认超时 %v，实际 %v", DefaultTimeout, c.Timeout)
	}
}

func TestNewAPIClient_InvalidProxyURL(t *testing.T) {
	if _, err := NewAPIClient(Options{ProxyURL: "http://[::1"}); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if _, err := NewAPIClient(Options{ProxyURL: "just-a-host"}); err == nil {
		t.Fatalf("缺少 scheme 时期望错误，但得到 nil")
	}
}

func TestTransport_SetsUserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	c, err := NewAPIClient(Options{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	resp.Body.Close()

	if ua, _ := got.Load().(string); ua != DefaultUserAgent {
		t.Fatalf("期望 UA=%q，实际 %q", DefaultUserAgent, ua)
	}
}

func TestTransport_RetryBounded(t *testing.T) {
	// 拨号总是失败：用一个已关闭的端口模拟 transport error。
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen 失败：%v", err)
	}
	addr := l.Addr().String()
	l.Close()

	var dials atomic.Int32
	base := &http.Transport{
		DialContext: func(ctx context.Context, network, a string) (net.Conn, error) {
			dials.Add(1)
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}

	for _, tc := range []struct {
		retryMax int
		want     int32
	}{
		{0, 1},
		{2, 3},
	} {
		dials.Store(0)
		tr := &Transport{Base: base, RetryMax: tc.retryMax, RetryDelay: time.Millisecond}
		req, _ := http.NewRequest(http.MethodGet, "http://"+addr+"/", nil)
		if _, err := tr.RoundTrip(req); err == nil {
			t.Fatalf("期望错误，但得到 nil")
		}
		if got := dials.Load(); got != tc.want {
			t.Fatalf("RetryMax=%d：期望 %d 次尝试，实际 %d", tc.retryMax, tc.want, got)
		}
	}
}

func TestTransport_NilRequest(t *testing.T) {
	tr := &Transport{Base: &http.Transport{}}
	if _, err := tr.RoundTrip(nil); err == nil {
		t.Fatalf("期望 nil request 错误，实际 %v", err)
	}
}
