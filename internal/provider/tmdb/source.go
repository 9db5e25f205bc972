package tmdb

import (
	"context"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	providerx "github.com/SagarThayat/movie-explorer-app/internal/provider"
)

var _ providerx.TrailerSource = TrailerSource{}

// TrailerSource 是预告片解析链的 catalog 兜底：
// 在单片视频列表中取第一条 type=="Trailer" 且 site=="YouTube" 的记录。
type TrailerSource struct {
	Client Client
}

func (TrailerSource) Name() string { return providerx.SourceTMDB }

func (s TrailerSource) Lookup(ctx context.Context, _ string, catalogID int64) (*domain.Trailer, error) {
	videos, err := s.Client.Videos(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	v, ok := domain.FirstYouTubeTrailer(videos)
	if !ok {
		return nil, nil
	}
	return domain.NewYouTubeTrailer(providerx.SourceTMDB, v.Key), nil
}
