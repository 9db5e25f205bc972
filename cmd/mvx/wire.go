package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/SagarThayat/movie-explorer-app/internal/app"
	"github.com/SagarThayat/movie-explorer-app/internal/app/catalog"
	"github.com/SagarThayat/movie-explorer-app/internal/app/enrich"
	"github.com/SagarThayat/movie-explorer-app/internal/app/rating"
	"github.com/SagarThayat/movie-explorer-app/internal/app/trailer"
	"github.com/SagarThayat/movie-explorer-app/internal/config"
	"github.com/SagarThayat/movie-explorer-app/internal/history"
	"github.com/SagarThayat/movie-explorer-app/internal/infra/fsx"
	"github.com/SagarThayat/movie-explorer-app/internal/infra/httpx"
	"github.com/SagarThayat/movie-explorer-app/internal/infra/kv"
	"github.com/SagarThayat/movie-explorer-app/internal/provider"
	"github.com/SagarThayat/movie-explorer-app/internal/provider/omdb"
	"github.com/SagarThayat/movie-explorer-app/internal/provider/tmdb"
	"github.com/SagarThayat/movie-explorer-app/internal/provider/youtube"
)

// dependencies 持有一次进程运行所需的全部组件。
type dependencies struct {
	Explorer *app.Explorer
	store    kv.Store
}

func (d *dependencies) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// wire 按配置组装 provider → enrich → catalog → history → explorer。
func wire(ctx context.Context, eff config.EffectiveConfig, logger *slog.Logger, obs enrich.Observer) (*dependencies, error) {
	hc, err := httpx.NewAPIClient(httpx.Options{
		ProxyURL: eff.ProxyURL,
		Timeout:  eff.HTTPTimeout,
		RetryMax: eff.RetryMax,
	})
	if err != nil {
		return nil, &config.Error{Code: config.ErrCodeInvalid, Path: eff.ConfigFile, Err: fmt.Errorf("proxy.url 无效：%w", err)}
	}

	tmdbClient := tmdb.Client{BaseURL: eff.TMDBBaseURL, APIKey: eff.TMDBAPIKey, Language: eff.Language, HTTP: hc}
	ytClient := youtube.Client{BaseURL: eff.YouTubeBaseURL, APIKey: eff.YouTubeAPIKey, HTTP: hc}

	reg, err := provider.NewRegistry(
		youtube.TrailerSource{Client: ytClient},
		tmdb.TrailerSource{Client: tmdbClient},
	)
	if err != nil {
		return nil, fmt.Errorf("初始化 trailer registry 失败：%w", err)
	}

	var ratingSrc rating.Source
	if eff.OMDBAPIKey != "" {
		ratingSrc = omdb.Client{BaseURL: eff.OMDBBaseURL, APIKey: eff.OMDBAPIKey, HTTP: hc}
	} else {
		logger.Debug("未配置 OMDB_API_KEY，第二评分统一为 N/A")
	}

	engine := &enrich.Engine{
		Trailers:    trailer.New(reg, eff.ActiveTrailerSources(), logger),
		Ratings:     rating.New(ratingSrc, logger),
		Concurrency: eff.Concurrency,
		Observer:    obs,
		Logger:      logger,
	}
	svc := &catalog.Service{Source: tmdbClient, Enricher: engine, Logger: logger}

	store, err := openStore(ctx, eff.History)
	if err != nil {
		return nil, err
	}
	hist, err := history.Load(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &dependencies{
		Explorer: &app.Explorer{Catalog: svc, History: hist},
		store:    store,
	}, nil
}

func openStore(ctx context.Context, h config.HistoryOptions) (kv.Store, error) {
	if h.Backend == kv.BackendSQLite {
		if err := fsx.OS().EnsureDir(filepath.Dir(h.DSN)); err != nil {
			return nil, fmt.Errorf("创建 history 目录失败：%w", err)
		}
	}
	store, err := kv.Open(ctx, kv.Options{Backend: h.Backend, Dir: h.Dir, DSN: h.DSN})
	if err != nil {
		return nil, fmt.Errorf("打开 history 存储失败（backend=%s）：%w", h.Backend, err)
	}
	return store, nil
}
