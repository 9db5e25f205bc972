package app

import (
	"context"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/query"
)

// Catalog 是 catalog.Service 的只读视图（便于在展示层测试中替换）。
type Catalog interface {
	Trending(ctx context.Context) (domain.ListResult, error)
	Search(ctx context.Context, term string, page int) (domain.ListResult, error)
	Details(ctx context.Context, id int64) (domain.MovieDetails, error)
}

// History 是最近搜索列表（history.SearchHistory 满足该接口）。
type History interface {
	Add(ctx context.Context, term string) []string
	Clear(ctx context.Context)
	List() []string
}

// Explorer 把 catalog 查询与最近搜索组合成 CLI / HTTP 共用的用例层。
type Explorer struct {
	Catalog Catalog
	History History
}

func (e *Explorer) Trending(ctx context.Context) (domain.ListResult, error) {
	return e.Catalog.Trending(ctx)
}

// Search 先记录搜索词（与查询结果无关），再查询 catalog。非法搜索词不会被记录。
func (e *Explorer) Search(ctx context.Context, term string, page int) (domain.ListResult, error) {
	term, err := query.ParseTerm(term)
	if err != nil {
		return domain.ListResult{}, err
	}
	if e.History != nil {
		e.History.Add(ctx, term)
	}
	return e.Catalog.Search(ctx, term, page)
}

// Details 接受数字 id、"tmdb:<id>" 或 catalog 页面 URL。
func (e *Explorer) Details(ctx context.Context, ref string) (domain.MovieDetails, error) {
	id, err := query.ParseMovieID(ref)
	if err != nil {
		return domain.MovieDetails{}, err
	}
	return e.Catalog.Details(ctx, id)
}

func (e *Explorer) RecentSearches() []string {
	if e.History == nil {
		return []string{}
	}
	return e.History.List()
}

func (e *Explorer) ClearHistory(ctx context.Context) {
	if e.History != nil {
		e.History.Clear(ctx)
	}
}
