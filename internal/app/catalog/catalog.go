package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/provider"
	"github.com/SagarThayat/movie-explorer-app/internal/provider/tmdb"
	"github.com/SagarThayat/movie-explorer-app/internal/query"
)

// Source 是 catalog 上游（tmdb.Client 满足该接口）。
type Source interface {
	Trending(ctx context.Context) (tmdb.Page, error)
	Search(ctx context.Context, term string, page int) (tmdb.Page, error)
	Details(ctx context.Context, id int64) (domain.MovieDetails, error)
	Credits(ctx context.Context, id int64, limit int) ([]domain.CastMember, error)
}

// Enricher 为原始列表补充预告片与第二评分（enrich.Engine 满足该接口）。
type Enricher interface {
	Enrich(ctx context.Context, raws []domain.RawMovie) []domain.EnrichedMovie
}

// ErrNotFound 表示请求的电影在 catalog 中不存在。
var ErrNotFound = errors.New("电影不存在")

// UpstreamError 表示 catalog 上游不可用（展示层据此返回 502 / 空列表 + 提示）。
type UpstreamError struct {
	Op  string // "trending" / "search" / "details"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog %s 失败：%s", e.Op, provider.Describe("tmdb", e.Err))
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Service 是列表查询（trending/search）与详情查询的应用层入口。
type Service struct {
	Source   Source
	Enricher Enricher
	Logger   *slog.Logger

	// Now 仅用于测试注入；为空时使用 time.Now。
	Now func() time.Time
}

func (s *Service) Trending(ctx context.Context) (domain.ListResult, error) {
	started := s.now()
	p, err := s.Source.Trending(ctx)
	if err != nil {
		s.logger().Warn("trending 查询失败", "err", err)
		return domain.ListResult{}, &UpstreamError{Op: "trending", Err: err}
	}

	r := domain.ListResult{
		Kind:       domain.ListKindTrending,
		Page:       1,
		TotalPages: 1,
		StartedAt:  started,
		Movies:     s.enrich(ctx, p.Movies),
	}
	r.FinishedAt = s.now()
	r.Finalize()
	return r, nil
}

// Search 规范化搜索词后查询 catalog；page 从 1 开始。
func (s *Service) Search(ctx context.Context, term string, page int) (domain.ListResult, error) {
	term, err := query.ParseTerm(term)
	if err != nil {
		return domain.ListResult{}, err
	}
	if err := query.ValidatePage(page, 0); err != nil {
		return domain.ListResult{}, err
	}

	started := s.now()
	p, err := s.Source.Search(ctx, term, page)
	if err != nil {
		s.logger().Warn("search 查询失败", "query", term, "page", page, "err", err)
		return domain.ListResult{}, &UpstreamError{Op: "search", Err: err}
	}

	total := p.TotalPages
	if total < 1 {
		total = 1
	}
	// 超出总页数时上游返回空列表；这里显式拒绝，避免展示“空页 + 可点的上一页”。
	if len(p.Movies) == 0 && page > total {
		return domain.ListResult{}, query.ValidatePage(page, total)
	}

	r := domain.ListResult{
		Kind:       domain.ListKindSearch,
		Query:      term,
		Page:       page,
		TotalPages: total,
		StartedAt:  started,
		Movies:     s.enrich(ctx, p.Movies),
	}
	r.FinishedAt = s.now()
	r.Finalize()
	return r, nil
}

// Details 同时请求单片详情与演职员表。
//
// 只有详情请求失败才算失败；演职员表失败时记 warn 并返回空 cast。
func (s *Service) Details(ctx context.Context, id int64) (domain.MovieDetails, error) {
	if id <= 0 {
		return domain.MovieDetails{}, &query.InvalidError{Kind: query.KindBadID, Input: fmt.Sprint(id)}
	}

	var (
		d    domain.MovieDetails
		cast []domain.CastMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d, err = s.Source.Details(gctx, id)
		return err
	})
	g.Go(func() error {
		c, err := s.Source.Credits(gctx, id, domain.TopCastLimit)
		if err != nil {
			if gctx.Err() == nil {
				s.logger().Warn("credits 查询失败，cast 置空", "id", id, "err", err)
			}
			return nil
		}
		cast = c
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return domain.MovieDetails{}, fmt.Errorf("%w：id=%d", ErrNotFound, id)
		}
		s.logger().Warn("details 查询失败", "id", id, "err", err)
		return domain.MovieDetails{}, &UpstreamError{Op: "details", Err: err}
	}

	if cast == nil {
		cast = []domain.CastMember{}
	}
	d.Cast = cast
	if d.Genres == nil {
		d.Genres = []string{}
	}
	return d, nil
}

func (s *Service) enrich(ctx context.Context, raws []domain.RawMovie) []domain.EnrichedMovie {
	if s.Enricher == nil {
		out := make([]domain.EnrichedMovie, 0, len(raws))
		for _, r := range raws {
			out = append(out, domain.NewEnrichedMovie(r))
		}
		return out
	}
	return s.Enricher.Enrich(ctx, raws)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
