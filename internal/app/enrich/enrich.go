package enrich

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

//go:generate mockgen -destination=mock_enrich_test.go -package=enrich . TrailerResolver,RatingFetcher

// TrailerResolver 返回 nil 表示没有预告片；实现不应返回错误（失败自行降级）。
type TrailerResolver interface {
	Resolve(ctx context.Context, title string, catalogID int64) *domain.Trailer
}

// RatingFetcher 返回第二评分原文；不可用时返回 domain.RatingNA。
type RatingFetcher interface {
	Fetch(ctx context.Context, title string) string
}

// Engine 为一批 catalog 电影补充预告片与第二评分。
//
// 不变量：
// - 输出与输入等长、同序（第 i 个输出对应第 i 个输入）
// - 单条电影的失败（包括 panic）只影响该条的对应字段，不会丢弃条目，也不会中断整批
// - 不修改输入
type Engine struct {
	Trailers TrailerResolver
	Ratings  RatingFetcher

	// Concurrency 限制同时处理的电影数量；<=0 表示不限制（整批同时发起）。
	Concurrency int

	Observer Observer
	Logger   *slog.Logger
}

// Enrich 并发处理所有电影，全部完成后一次性返回（full-batch join）。
func (e *Engine) Enrich(ctx context.Context, raws []domain.RawMovie) []domain.EnrichedMovie {
	if len(raws) == 0 {
		return []domain.EnrichedMovie{}
	}

	workers := e.Concurrency
	if workers <= 0 || workers > len(raws) {
		workers = len(raws)
	}

	started := time.Now()
	if e.Observer != nil {
		e.Observer.OnStart(len(raws), workers)
	}

	var done atomic.Int64
	mapper := iter.Mapper[domain.RawMovie, domain.EnrichedMovie]{MaxGoroutines: workers}
	out := mapper.Map(raws, func(raw *domain.RawMovie) domain.EnrichedMovie {
		oneStarted := time.Now()
		m := e.enrichOne(ctx, *raw)
		if e.Observer != nil {
			e.Observer.OnItemDone(int(done.Add(1)), len(raws), m, time.Since(oneStarted))
		}
		return m
	})

	if e.Observer != nil {
		e.Observer.OnFinish(len(raws), time.Since(started))
	}
	return out
}

// enrichOne 对单条电影同时发起预告片与评分查询，两者都结束后合并。
func (e *Engine) enrichOne(ctx context.Context, raw domain.RawMovie) domain.EnrichedMovie {
	m := domain.NewEnrichedMovie(raw)

	var (
		tr        *domain.Trailer
		rating    = domain.RatingNA
		trailerOK bool
		ratingOK  bool
	)

	var wg conc.WaitGroup
	if e.Trailers != nil {
		wg.Go(func() {
			tr = e.Trailers.Resolve(ctx, raw.Title, raw.ID)
			trailerOK = true
		})
	}
	if e.Ratings != nil {
		wg.Go(func() {
			rating = e.Ratings.Fetch(ctx, raw.Title)
			ratingOK = true
		})
	}

	if r := wg.WaitAndRecover(); r != nil {
		e.logger().Error("enrich panic，已降级", "id", raw.ID, "title", raw.Title, "panic", r.String())
	}

	if trailerOK && tr != nil && tr.URL != "" {
		m.Trailer = tr
	}
	if ratingOK {
		m.ExtraRating = domain.NormalizeRating(rating)
	}
	return m
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
