package trailer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/provider"
)

// Resolver 把 provider 层的有序降级链包装成“永不失败”的预告片解析。
//
// 约束：
// - 任何 source 错误都只写日志，不向上返回
// - 返回 nil 表示没有可播放的预告片
type Resolver struct {
	Registry provider.Registry
	Order    []string // 为空时使用 provider.DefaultTrailerOrder
	Logger   *slog.Logger
}

func New(reg provider.Registry, order []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{Registry: reg, Order: order, Logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, title string, catalogID int64) *domain.Trailer {
	t, attempts, err := provider.ResolveTrailerTrace(ctx, r.Registry, r.Order, title, catalogID)

	log := r.logger()
	for _, a := range attempts {
		switch a.Stage {
		case provider.StageLookup:
			log.Warn("trailer source 失败", "provider", a.Provider, "title", title, "id", catalogID, "reason", provider.Describe(a.Provider, a.Err))
		case provider.StageEmpty:
			log.Debug("trailer source 无结果", "provider", a.Provider, "title", title, "id", catalogID)
		}
	}
	if err != nil {
		if !errors.Is(err, provider.ErrNoTrailer) {
			log.Warn("trailer 解析失败", "title", title, "id", catalogID, "err", err)
		}
		return nil
	}
	log.Debug("trailer 已解析", "provider", t.Provider, "title", title, "id", catalogID)
	return t
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
