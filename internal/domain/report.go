package domain

import (
	"time"
)

const (
	ListKindTrending = "trending"
	ListKindSearch   = "search"
)

// ListResult 是列表查询（trending/search）对外稳定输出的结构（stdout JSON / HTTP 响应）。
type ListResult struct {
	Kind  string `json:"kind"`
	Query string `json:"query,omitempty"`

	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ListSummary     `json:"summary"`
	Movies  []EnrichedMovie `json:"movies"`
}

type ListSummary struct {
	Movies          int            `json:"movies"`
	WithTrailer     int            `json:"with_trailer"`
	WithExtraRating int            `json:"with_extra_rating"`
	TrailerSources  map[string]int `json:"trailer_sources"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) Movies 为 nil 时输出空数组（保持 JSON 结构稳定）
// 3) summary 由 movies 计算得出
//
// 注意：不排序。Movies 的顺序就是 catalog 返回的顺序。
func (r *ListResult) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Movies == nil {
		r.Movies = []EnrichedMovie{}
	}

	s := ListSummary{TrailerSources: map[string]int{}}
	for _, m := range r.Movies {
		s.Movies++
		if m.Trailer != nil {
			s.WithTrailer++
			s.TrailerSources[m.Trailer.Provider]++
		}
		if m.HasExtraRating() {
			s.WithExtraRating++
		}
	}
	r.Summary = s
}

// HasPrev / HasNext 对应“上一页/下一页”是否可用（页码范围 [1, TotalPages]）。
func (r ListResult) HasPrev() bool { return r.Page > 1 }

func (r ListResult) HasNext() bool { return r.Page < r.TotalPages }
