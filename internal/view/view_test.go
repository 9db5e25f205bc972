package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

func sampleList() domain.ListResult {
	dune := domain.NewEnrichedMovie(domain.RawMovie{ID: 1, Title: "Dune", Overview: "Desert planet.", VoteAverage: 8.1, PosterPath: "/x.jpg"})
	dune.ExtraRating = "8.0"
	dune.Trailer = domain.NewYouTubeTrailer("youtube", "abc123")

	obscure := domain.NewEnrichedMovie(domain.RawMovie{ID: 2, Title: "Obscure <b>", VoteAverage: 5})

	r := domain.ListResult{Kind: domain.ListKindSearch, Query: "dune & co", Page: 2, TotalPages: 3, Movies: []domain.EnrichedMovie{dune, obscure}}
	r.Finalize()
	return r
}

func parse(t *testing.T, b *bytes.Buffer) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(b)
	require.NoError(t, err)
	return doc
}

func TestRenderListHTML_Cards(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListHTML(&buf, sampleList(), ListOptions{Recent: []string{"dune & co", "arrival"}}))
	doc := parse(t, &buf)

	cards := doc.Find("article.movie-card")
	require.Equal(t, 2, cards.Length())

	first := cards.Eq(0)
	assert.Equal(t, "Dune", first.Find("h2").Text())
	src, _ := first.Find("img.poster").Attr("src")
	assert.Equal(t, "https://image.tmdb.org/t/p/w300/x.jpg", src)
	assert.Contains(t, first.Find("p.extra-rating").Text(), "8.0")
	assert.Contains(t, first.Find("p.rating").Text(), "8.1")
	iframe, ok := first.Find("iframe.trailer").Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", iframe)
	assert.Equal(t, 0, first.Find("p.no-trailer").Length())

	second := cards.Eq(1)
	assert.Equal(t, "Obscure <b>", second.Find("h2").Text(), "标题应被转义而不是解析为标签")
	assert.Equal(t, 0, second.Find("img.poster").Length(), "没有海报时不渲染图片")
	assert.Equal(t, 0, second.Find("p.extra-rating").Length(), "N/A 时省略第二评分")
	assert.Equal(t, NoDescription, second.Find("p.overview").Text())
	assert.Equal(t, NoTrailer, second.Find("p.no-trailer").Text())
	assert.Equal(t, 0, second.Find("iframe").Length())
}

func TestRenderListHTML_PagerAndRecent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListHTML(&buf, sampleList(), ListOptions{Recent: []string{"dune & co", "arrival"}}))
	doc := parse(t, &buf)

	prev, ok := doc.Find("nav.pager a.prev").Attr("href")
	require.True(t, ok)
	assert.Contains(t, prev, "page=1")
	assert.Contains(t, prev, "query=dune%20%26%20co")

	next, ok := doc.Find("nav.pager a.next").Attr("href")
	require.True(t, ok)
	assert.Contains(t, next, "page=3")

	var tags []string
	doc.Find(".recent-tags a.recent-tag").Each(func(_ int, s *goquery.Selection) { tags = append(tags, s.Text()) })
	assert.Equal(t, []string{"dune & co", "arrival"}, tags)
}

func TestRenderListHTML_EmptyWithNotice(t *testing.T) {
	r := domain.ListResult{Kind: domain.ListKindTrending, Page: 1, TotalPages: 1}
	r.Finalize()

	var buf bytes.Buffer
	require.NoError(t, RenderListHTML(&buf, r, ListOptions{Notice: "catalog 暂不可用"}))
	doc := parse(t, &buf)

	assert.Equal(t, NoMovies, doc.Find("p.empty").Text())
	assert.Equal(t, "catalog 暂不可用", doc.Find("p.notice").Text())
	assert.Equal(t, 0, doc.Find("nav.pager").Length(), "trending 不分页")
	assert.Equal(t, 0, doc.Find(".recent").Length())
}

func TestRenderDetailsHTML(t *testing.T) {
	d := domain.MovieDetails{
		ID:          438631,
		Title:       "Dune",
		Overview:    "Paul Atreides...",
		PosterPath:  "/d.jpg",
		ReleaseDate: "2021-09-15",
		RuntimeM:    155,
		Genres:      []string{"Science Fiction", "Adventure"},
		Cast:        []domain.CastMember{{CastID: 1, Name: "Timothée Chalamet", Character: "Paul Atreides"}},
		Trailer:     domain.NewYouTubeTrailer("tmdb", "8g18jFHCLXk"),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderDetailsHTML(&buf, d))
	doc := parse(t, &buf)

	src, _ := doc.Find("img.poster").Attr("src")
	assert.Equal(t, "https://image.tmdb.org/t/p/w400/d.jpg", src)
	assert.Contains(t, doc.Find("p.genres").Text(), "Science Fiction, Adventure")
	assert.Contains(t, doc.Find("p.runtime").Text(), "155 min")
	assert.Equal(t, "Timothée Chalamet as Paul Atreides", doc.Find("ul.cast li").First().Text())
	iframe, _ := doc.Find("iframe.trailer").Attr("src")
	assert.Equal(t, "https://www.youtube.com/embed/8g18jFHCLXk", iframe)

	d.Trailer = nil
	buf.Reset()
	require.NoError(t, RenderDetailsHTML(&buf, d))
	assert.Equal(t, NoTrailer, parse(t, &buf).Find("p.no-trailer").Text())
}

func TestWriteListText(t *testing.T) {
	var buf bytes.Buffer
	WriteListText(&buf, sampleList(), ListOptions{})
	out := buf.String()

	assert.Contains(t, out, "trailer: https://www.youtube.com/embed/abc123")
	assert.Contains(t, out, "IMDb Rating: 8.0")
	assert.Equal(t, 1, strings.Count(out, "IMDb Rating"), "N/A 不应输出第二评分行")
	assert.Contains(t, out, NoTrailer)
	assert.Contains(t, out, NoDescription)
	assert.Contains(t, out, "--page 1")
	assert.Contains(t, out, "--page 3")
}

func TestWriteListText_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteListText(&buf, domain.ListResult{Kind: domain.ListKindTrending}, ListOptions{})
	assert.Contains(t, buf.String(), NoMovies)
}

func TestWriteHistoryText(t *testing.T) {
	var buf bytes.Buffer
	WriteHistoryText(&buf, []string{"dune", "arrival"})
	assert.Contains(t, buf.String(), "1. dune")
	assert.Contains(t, buf.String(), "2. arrival")

	buf.Reset()
	WriteHistoryText(&buf, nil)
	assert.Contains(t, buf.String(), "没有最近搜索")
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "", PosterURL("  ", PosterListSize))
	assert.Equal(t, "https://image.tmdb.org/t/p/w300/a.jpg", PosterURL("a.jpg", PosterListSize))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "千与...", Truncate("千与千寻的神隐", 5))
	assert.Equal(t, "Dune", Truncate("  Dune  ", 10))
	assert.Equal(t, "Dun", Truncate("Dune Part Two", 3))
}
