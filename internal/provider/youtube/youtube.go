package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	providerx "github.com/SagarThayat/movie-explorer-app/internal/provider"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client 调用 YouTube Data API 的 search 接口（只取第一条视频）。
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

type searchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// TrailerQuery 构造预告片搜索词。
func TrailerQuery(title string) string {
	return strings.TrimSpace(title) + " official trailer"
}

// SearchVideoID 返回与 q 最相关的一条视频 ID；没有结果时返回 ("", nil)。
func (c Client) SearchVideoID(ctx context.Context, q string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("youtube api key 为空")
	}
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	v := url.Values{}
	v.Set("part", "snippet")
	v.Set("q", q)
	v.Set("type", "video")
	v.Set("maxResults", "1")
	v.Set("key", c.APIKey)

	var resp searchResponse
	if err := providerx.GetJSON(ctx, c.HTTP, strings.TrimRight(base, "/")+"/search?"+v.Encode(), &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Items[0].ID.VideoID), nil
}

var _ providerx.TrailerSource = TrailerSource{}

// TrailerSource 是预告片解析链的首选来源：按片名搜索 "<title> official trailer"。
type TrailerSource struct {
	Client Client
}

func (TrailerSource) Name() string { return providerx.SourceYouTube }

func (s TrailerSource) Lookup(ctx context.Context, title string, _ int64) (*domain.Trailer, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}
	id, err := s.Client.SearchVideoID(ctx, TrailerQuery(title))
	if err != nil {
		return nil, err
	}
	return domain.NewYouTubeTrailer(providerx.SourceYouTube, id), nil
}
