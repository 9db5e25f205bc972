package domain

import "strings"

// RatingNA 是第二评分不可用时的占位值（对外稳定，前端据此省略该行）。
const RatingNA = "N/A"

// RawMovie 是 catalog（TMDB）列表接口返回的单条电影摘要。
//
// 约束：只读；生命周期 = 一次查询响应。PosterPath 允许为空（上游返回 null）。
type RawMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
}

// EnrichedMovie 是 enrich 阶段的产物，与 RawMovie 一一对应（ID 保持不变）。
//
// 不变量：
// - ExtraRating 永不为空：不可用时为 RatingNA
// - Trailer 为 nil 表示没有可播放的预告片
type EnrichedMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Rating      float64  `json:"rating"`
	PosterPath  string   `json:"poster_path,omitempty"`
	ExtraRating string   `json:"extra_rating"`
	Trailer     *Trailer `json:"trailer,omitempty"`
}

// NewEnrichedMovie 从 RawMovie 复制基础字段，并把 enrich 字段置为“缺失”状态。
func NewEnrichedMovie(raw RawMovie) EnrichedMovie {
	return EnrichedMovie{
		ID:          raw.ID,
		Title:       raw.Title,
		Overview:    raw.Overview,
		Rating:      raw.VoteAverage,
		PosterPath:  raw.PosterPath,
		ExtraRating: RatingNA,
	}
}

// HasExtraRating 报告第二评分是否可展示。
func (m EnrichedMovie) HasExtraRating() bool {
	r := strings.TrimSpace(m.ExtraRating)
	return r != "" && r != RatingNA
}

// TrailerURL 返回可嵌入的预告片地址；没有预告片时返回空串。
func (m EnrichedMovie) TrailerURL() string {
	if m.Trailer == nil {
		return ""
	}
	return m.Trailer.URL
}

// NormalizeRating 把上游评分文本规范化：空白或缺失一律视为 RatingNA。
func NormalizeRating(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return RatingNA
	}
	return s
}
