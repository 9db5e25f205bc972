package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	providerx "github.com/SagarThayat/movie-explorer-app/internal/provider"
)

func TestTrailerSource_BuildsQueryAndEmbedURL(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path 不正确：%s", r.URL.Path)
		}
		q := r.URL.Query()
		got = map[string]string{
			"part":       q.Get("part"),
			"q":          q.Get("q"),
			"type":       q.Get("type"),
			"maxResults": q.Get("maxResults"),
			"key":        q.Get("key"),
		}
		_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"abc123"}}]}`))
	}))
	defer srv.Close()

	s := TrailerSource{Client: Client{BaseURL: srv.URL, APIKey: "yk", HTTP: srv.Client()}}
	tr, err := s.Lookup(context.Background(), "Dune", 438631)
	if err != nil {
		t.Fatalf("Lookup 失败：%v", err)
	}
	if tr == nil || tr.URL != "https://www.youtube.com/embed/abc123" || tr.Provider != "youtube" {
		t.Fatalf("trailer 不正确：%+v", tr)
	}

	want := map[string]string{
		"part":       "snippet",
		"q":          "Dune official trailer",
		"type":       "video",
		"maxResults": "1",
		"key":        "yk",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("参数 %s 期望 %q，实际 %q", k, v, got[k])
		}
	}
}

func TestTrailerSource_NoItemsIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	s := TrailerSource{Client: Client{BaseURL: srv.URL, APIKey: "yk", HTTP: srv.Client()}}
	tr, err := s.Lookup(context.Background(), "zzz", 1)
	if err != nil || tr != nil {
		t.Fatalf("无结果应返回 (nil, nil)，实际 tr=%+v err=%v", tr, err)
	}
}

func TestTrailerSource_QuotaErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	s := TrailerSource{Client: Client{BaseURL: srv.URL, APIKey: "secret-key", HTTP: srv.Client()}}
	_, err := s.Lookup(context.Background(), "Dune", 1)

	var hs *providerx.HTTPStatusError
	if !errors.As(err, &hs) || hs.StatusCode != http.StatusForbidden {
		t.Fatalf("期望 403 HTTPStatusError，实际 %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") || strings.Contains(hs.URL, "secret-key") {
		t.Fatalf("错误中不应包含 api key：%v url=%q", err, hs.URL)
	}
}

func TestTrailerSource_BlankTitleSkipsRequest(t *testing.T) {
	s := TrailerSource{Client: Client{BaseURL: "http://127.0.0.1:1", APIKey: "yk", HTTP: http.DefaultClient}}
	tr, err := s.Lookup(context.Background(), "  ", 1)
	if err != nil || tr != nil {
		t.Fatalf("空标题应直接返回 (nil, nil)，实际 tr=%+v err=%v", tr, err)
	}
}

func TestTrailerQuery(t *testing.T) {
	if got := TrailerQuery("  Blade Runner 2049 "); got != "Blade Runner 2049 official trailer" {
		t.Fatalf("TrailerQuery 不正确：%q", got)
	}
}
