package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestListResult_Finalize_SummaryKeepsOrderAndUTC(t *testing.T) {
	r := ListResult{
		Kind:       ListKindSearch,
		Query:      "dune",
		Page:       1,
		TotalPages: 3,
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Movies: []EnrichedMovie{
			{ID: 3, Title: "C", ExtraRating: RatingNA},
			{ID: 1, Title: "A", ExtraRating: "8.0", Trailer: NewYouTubeTrailer("youtube", "abc123")},
			{ID: 2, Title: "B", ExtraRating: "7.1", Trailer: NewYouTubeTrailer("tmdb", "zzz")},
		},
	}

	r.Finalize()

	// Finalize 不允许改变顺序：顺序即 catalog 顺序。
	if r.Movies[0].ID != 3 || r.Movies[1].ID != 1 || r.Movies[2].ID != 2 {
		t.Fatalf("movies 顺序被改变：%v", []int64{r.Movies[0].ID, r.Movies[1].ID, r.Movies[2].ID})
	}
	if r.Summary.Movies != 3 || r.Summary.WithTrailer != 2 || r.Summary.WithExtraRating != 2 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}
	if r.Summary.TrailerSources["youtube"] != 1 || r.Summary.TrailerSources["tmdb"] != 1 {
		t.Fatalf("trailer_sources 统计不正确：%+v", r.Summary.TrailerSources)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestListResult_Finalize_NilMoviesBecomesEmptyArray(t *testing.T) {
	r := ListResult{Kind: ListKindTrending, Page: 1, TotalPages: 1}
	r.Finalize()

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte(`"movies":[]`)) {
		t.Fatalf("movies 应输出空数组：%s", string(b))
	}
}

func TestListResult_Pagination(t *testing.T) {
	cases := []struct {
		page, total int
		prev, next  bool
	}{
		{1, 1, false, false},
		{1, 3, false, true},
		{2, 3, true, true},
		{3, 3, true, false},
	}
	for _, c := range cases {
		r := ListResult{Page: c.page, TotalPages: c.total}
		if r.HasPrev() != c.prev || r.HasNext() != c.next {
			t.Fatalf("page=%d total=%d：期望 prev=%v next=%v，实际 prev=%v next=%v", c.page, c.total, c.prev, c.next, r.HasPrev(), r.HasNext())
		}
	}
}

func TestEnrichedMovie_ExtraRatingAndTrailer(t *testing.T) {
	m := NewEnrichedMovie(RawMovie{ID: 1, Title: "Dune", VoteAverage: 8.1, PosterPath: "/x.jpg"})
	if m.ExtraRating != RatingNA {
		t.Fatalf("默认 ExtraRating 应为 %q，实际 %q", RatingNA, m.ExtraRating)
	}
	if m.HasExtraRating() {
		t.Fatalf("N/A 不应视为可展示评分")
	}
	if m.TrailerURL() != "" {
		t.Fatalf("没有 trailer 时 TrailerURL 应为空，实际 %q", m.TrailerURL())
	}

	m.Trailer = NewYouTubeTrailer("YouTube", " abc123 ")
	if m.TrailerURL() != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("embed URL 不正确：%q", m.TrailerURL())
	}
	if m.Trailer.Provider != "youtube" {
		t.Fatalf("provider 应规范化为小写，实际 %q", m.Trailer.Provider)
	}
	if NewYouTubeTrailer("tmdb", "  ") != nil {
		t.Fatalf("空 key 不应构造 trailer")
	}
	if NormalizeRating("  ") != RatingNA || NormalizeRating("7.4") != "7.4" {
		t.Fatalf("NormalizeRating 行为不正确")
	}
}

func TestFirstYouTubeTrailer_ExactCaseSensitiveMatch(t *testing.T) {
	videos := []Video{
		{Key: "a", Site: "YouTube", Type: "Teaser"},
		{Key: "b", Site: "youtube", Type: "Trailer"},
		{Key: "c", Site: "Vimeo", Type: "Trailer"},
		{Key: "d", Site: "YouTube", Type: "Trailer"},
		{Key: "e", Site: "YouTube", Type: "Trailer"},
	}
	v, ok := FirstYouTubeTrailer(videos)
	if !ok || v.Key != "d" {
		t.Fatalf("期望命中 d，实际 ok=%v v=%+v", ok, v)
	}

	if _, ok := FirstYouTubeTrailer(videos[:3]); ok {
		t.Fatalf("大小写不匹配时不应命中")
	}
}
