package provider

import (
	"context"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

// TrailerSource 把“上游 API 差异”限制在各自的子包内部；解析链只依赖统一接口。
//
// 约束：
// - Lookup 不做缓存、不做重试、不做限速（网络策略由 httpx 统一实现）
// - (nil, nil) 表示合法的“无结果”；网络/解析失败必须返回 error
// - 返回的 Trailer.Provider 必须等于 Name()
type TrailerSource interface {
	Name() string
	Lookup(ctx context.Context, title string, catalogID int64) (*domain.Trailer, error)
}

// TrailerSourceFunc 让普通函数满足 TrailerSource（测试与组合用）。
type TrailerSourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, title string, catalogID int64) (*domain.Trailer, error)
}

func (f TrailerSourceFunc) Name() string { return f.SourceName }

func (f TrailerSourceFunc) Lookup(ctx context.Context, title string, catalogID int64) (*domain.Trailer, error) {
	return f.Fn(ctx, title, catalogID)
}
