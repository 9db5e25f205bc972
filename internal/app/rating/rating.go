package rating

import (
	"context"
	"log/slog"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/provider"
)

// Source 是第二评分的上游（omdb.Client 满足该接口）。
type Source interface {
	Rating(ctx context.Context, title string) (string, error)
}

// Fetcher 查询第二评分；任何失败都降级为 domain.RatingNA。
type Fetcher struct {
	Source Source
	Logger *slog.Logger
}

func New(src Source, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{Source: src, Logger: logger}
}

func (f *Fetcher) Fetch(ctx context.Context, title string) string {
	if f.Source == nil {
		return domain.RatingNA
	}
	r, err := f.Source.Rating(ctx, title)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Warn("第二评分获取失败", "title", title, "reason", provider.Describe("omdb", err))
		}
		return domain.RatingNA
	}
	return domain.NormalizeRating(r)
}
