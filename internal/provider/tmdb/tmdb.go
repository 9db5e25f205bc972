package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	providerx "github.com/SagarThayat/movie-explorer-app/internal/provider"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

// ErrNotFound 表示 catalog 中不存在该 movie id（TMDB 返回 404）。
var ErrNotFound = errors.New("tmdb: movie not found")

// Client 是 catalog provider（TMDB v3）的最小 client。
//
// 约束：
// - 不做缓存/重试/限速（由 httpx 统一控制）
// - 所有方法只依赖 BaseURL + APIKey，便于在测试中指向 httptest
type Client struct {
	// BaseURL 为空时使用 DefaultBaseURL。
	BaseURL  string
	APIKey   string
	Language string // 可选，例如 "en-US"
	HTTP     *http.Client
}

// Page 是列表接口的一页原始结果。
type Page struct {
	Movies     []domain.RawMovie
	Page       int
	TotalPages int
}

type pageResponse struct {
	Page       int               `json:"page"`
	Results    []domain.RawMovie `json:"results"`
	TotalPages int               `json:"total_pages"`
}

type videosResponse struct {
	ID      int64          `json:"id"`
	Results []domain.Video `json:"results"`
}

type detailsResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Videos videosResponse `json:"videos"`
}

type creditsResponse struct {
	ID   int64               `json:"id"`
	Cast []domain.CastMember `json:"cast"`
}

func (c Client) baseURL() string {
	u := strings.TrimSpace(c.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (c Client) endpoint(path string, q url.Values) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("tmdb api key 为空")
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.APIKey)
	if lang := strings.TrimSpace(c.Language); lang != "" {
		q.Set("language", lang)
	}
	return c.baseURL() + path + "?" + q.Encode(), nil
}

func (c Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u, err := c.endpoint(path, q)
	if err != nil {
		return err
	}
	if err := providerx.GetJSON(ctx, c.HTTP, u, dst); err != nil {
		var hs *providerx.HTTPStatusError
		if errors.As(err, &hs) && hs.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return err
	}
	return nil
}

// Trending 返回当日 trending 电影。
//
// 注意：TotalPages 固定为 1。trending 不分页是既有的可观察行为，这里保持不变。
func (c Client) Trending(ctx context.Context) (Page, error) {
	var resp pageResponse
	if err := c.get(ctx, "/trending/movie/day", nil, &resp); err != nil {
		return Page{}, err
	}
	return Page{Movies: nonNil(resp.Results), Page: 1, TotalPages: 1}, nil
}

// Search 按关键字搜索电影；page 从 1 开始。
func (c Client) Search(ctx context.Context, query string, page int) (Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{}, errors.New("query 不能为空")
	}
	if page < 1 {
		return Page{}, fmt.Errorf("page 必须 >= 1，实际是 %d", page)
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", fmt.Sprint(page))

	var resp pageResponse
	if err := c.get(ctx, "/search/movie", q, &resp); err != nil {
		return Page{}, err
	}
	p := resp.Page
	if p < 1 {
		p = page
	}
	return Page{Movies: nonNil(resp.Results), Page: p, TotalPages: resp.TotalPages}, nil
}

// Videos 返回单片的视频列表（预告片、花絮等）。
func (c Client) Videos(ctx context.Context, id int64) ([]domain.Video, error) {
	if id <= 0 {
		return nil, fmt.Errorf("movie id 无效：%d", id)
	}
	var resp videosResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Details 返回单片详情（附带 videos，用于选出预告片）；Cast 由 Credits 单独获取。
func (c Client) Details(ctx context.Context, id int64) (domain.MovieDetails, error) {
	if id <= 0 {
		return domain.MovieDetails{}, fmt.Errorf("movie id 无效：%d", id)
	}
	q := url.Values{}
	q.Set("append_to_response", "videos")

	var resp detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), q, &resp); err != nil {
		return domain.MovieDetails{}, err
	}

	genres := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			genres = append(genres, name)
		}
	}

	d := domain.MovieDetails{
		ID:          resp.ID,
		Title:       resp.Title,
		Overview:    resp.Overview,
		PosterPath:  resp.PosterPath,
		ReleaseDate: resp.ReleaseDate,
		RuntimeM:    resp.Runtime,
		Rating:      resp.VoteAverage,
		Genres:      genres,
		Cast:        []domain.CastMember{},
	}
	if v, ok := domain.FirstYouTubeTrailer(resp.Videos.Results); ok {
		d.Trailer = domain.NewYouTubeTrailer(providerx.SourceTMDB, v.Key)
	}
	return d, nil
}

// Credits 返回按上游顺序排列的前 limit 位演员（limit<=0 表示不截断）。
func (c Client) Credits(ctx context.Context, id int64, limit int) ([]domain.CastMember, error) {
	if id <= 0 {
		return nil, fmt.Errorf("movie id 无效：%d", id)
	}
	var resp creditsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &resp); err != nil {
		return nil, err
	}
	cast := resp.Cast
	if limit > 0 && len(cast) > limit {
		cast = cast[:limit]
	}
	if cast == nil {
		cast = []domain.CastMember{}
	}
	return cast, nil
}

func nonNil(in []domain.RawMovie) []domain.RawMovie {
	if in == nil {
		return []domain.RawMovie{}
	}
	return in
}
