package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	providerx "github.com/SagarThayat/movie-explorer-app/internal/provider"
)

const DefaultBaseURL = "https://www.omdbapi.com/"

// Client 按片名查询第二评分（imdbRating）。
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

type titleResponse struct {
	Title      string `json:"Title"`
	IMDbRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Rating 返回 imdbRating 原文（例如 "8.0"）；字段缺失时返回 domain.RatingNA。
//
// 上游以 200 + {"Response":"False"} 表示未找到，此时返回 *provider.APIError。
func (c Client) Rating(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.RatingNA, errors.New("title 不能为空")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return domain.RatingNA, errors.New("omdb api key 为空")
	}
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	v := url.Values{}
	v.Set("t", title)
	v.Set("apikey", c.APIKey)

	var resp titleResponse
	if err := providerx.GetJSON(ctx, c.HTTP, base+"?"+v.Encode(), &resp); err != nil {
		return domain.RatingNA, err
	}
	if strings.EqualFold(resp.Response, "False") {
		return domain.RatingNA, &providerx.APIError{Provider: "omdb", Message: resp.Error}
	}
	return domain.NormalizeRating(resp.IMDbRating), nil
}
