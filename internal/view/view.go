// Package view 把 enrich 结果渲染成终端文本卡片或 HTML 片段。
//
// 展示规则：
// - 没有预告片：显示 "No trailer available"
// - 第二评分为 N/A：整行省略
// - 简介为空：显示 "No description available."
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

const (
	ImageBaseURL     = "https://image.tmdb.org/t/p/"
	PosterListSize   = "w300"
	PosterDetailSize = "w400"

	NoTrailer     = "No trailer available"
	NoDescription = "No description available."
	NoMovies      = "No movies found"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// PosterURL 拼接海报地址；path 为空时返回空串（不渲染图片）。
func PosterURL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ImageBaseURL + size + path
}

// FormatRating 输出一位小数的主评分（与 catalog 展示一致）。
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

type card struct {
	ID          int64
	Title       string
	PosterURL   string
	Rating      string
	ExtraRating string // 为空表示省略该行
	Overview    string
	TrailerURL  string
}

func newCard(m domain.EnrichedMovie) card {
	c := card{
		ID:         m.ID,
		Title:      m.Title,
		PosterURL:  PosterURL(m.PosterPath, PosterListSize),
		Rating:     FormatRating(m.Rating),
		Overview:   overview(m.Overview),
		TrailerURL: m.TrailerURL(),
	}
	if m.HasExtraRating() {
		c.ExtraRating = strings.TrimSpace(m.ExtraRating)
	}
	return c
}

func overview(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoDescription
	}
	return s
}

type listPage struct {
	Kind       string
	Query      string
	Page       int
	TotalPages int
	Movies     []card
	Recent     []string
	Notice     string
}

func (p listPage) ShowPager() bool { return p.Kind == domain.ListKindSearch && p.TotalPages > 1 }
func (p listPage) HasPrev() bool   { return p.Page > 1 }
func (p listPage) HasNext() bool   { return p.Page < p.TotalPages }
func (p listPage) PrevPage() int   { return p.Page - 1 }
func (p listPage) NextPage() int   { return p.Page + 1 }

// ListOptions 是列表渲染的附加信息。
type ListOptions struct {
	Recent []string // 最近搜索（仅 HTML 使用）
	Notice string   // 例如上游不可用时的提示；与空列表一起展示
}

func newListPage(r domain.ListResult, opts ListOptions) listPage {
	p := listPage{
		Kind:       r.Kind,
		Query:      r.Query,
		Page:       r.Page,
		TotalPages: r.TotalPages,
		Movies:     make([]card, 0, len(r.Movies)),
		Recent:     opts.Recent,
		Notice:     opts.Notice,
	}
	for _, m := range r.Movies {
		p.Movies = append(p.Movies, newCard(m))
	}
	return p
}

// RenderListHTML 渲染电影卡片列表（HTML 片段）。
func RenderListHTML(w io.Writer, r domain.ListResult, opts ListOptions) error {
	return tmpl.ExecuteTemplate(w, "list", newListPage(r, opts))
}

type detailsPage struct {
	ID          int64
	Title       string
	PosterURL   string
	Overview    string
	Genres      string
	ReleaseDate string
	Runtime     int
	Cast        []domain.CastMember
	TrailerURL  string
}

func newDetailsPage(d domain.MovieDetails) detailsPage {
	p := detailsPage{
		ID:          d.ID,
		Title:       d.Title,
		PosterURL:   PosterURL(d.PosterPath, PosterDetailSize),
		Overview:    overview(d.Overview),
		Genres:      strings.Join(d.Genres, ", "),
		ReleaseDate: d.ReleaseDate,
		Runtime:     d.RuntimeM,
		Cast:        d.Cast,
	}
	if d.Trailer != nil {
		p.TrailerURL = d.Trailer.URL
	}
	return p
}

// RenderDetailsHTML 渲染单片详情（HTML 片段）。
func RenderDetailsHTML(w io.Writer, d domain.MovieDetails) error {
	return tmpl.ExecuteTemplate(w, "details", newDetailsPage(d))
}

// WriteListText 把列表写成终端文本卡片。
func WriteListText(w io.Writer, r domain.ListResult, opts ListOptions) {
	p := newListPage(r, opts)

	switch p.Kind {
	case domain.ListKindSearch:
		fmt.Fprintf(w, "搜索：%q（第 %d/%d 页）\n\n", p.Query, p.Page, p.TotalPages)
	default:
		fmt.Fprintln(w, "今日热门")
		fmt.Fprintln(w)
	}
	if p.Notice != "" {
		fmt.Fprintf(w, "%s\n\n", p.Notice)
	}
	if len(p.Movies) == 0 {
		fmt.Fprintln(w, NoMovies)
		return
	}

	for i, c := range p.Movies {
		fmt.Fprintf(w, "[%d] %s (id=%d)\n", i+1, c.Title, c.ID)
		if c.PosterURL != "" {
			fmt.Fprintf(w, "    poster: %s\n", c.PosterURL)
		}
		fmt.Fprintf(w, "    TMDb Rating: %s\n", c.Rating)
		if c.ExtraRating != "" {
			fmt.Fprintf(w, "    IMDb Rating: %s\n", c.ExtraRating)
		}
		fmt.Fprintf(w, "    %s\n", Truncate(c.Overview, 200))
		if c.TrailerURL != "" {
			fmt.Fprintf(w, "    trailer: %s\n", c.TrailerURL)
		} else {
			fmt.Fprintf(w, "    %s\n", NoTrailer)
		}
		fmt.Fprintln(w)
	}

	if p.ShowPager() {
		var nav []string
		if p.HasPrev() {
			nav = append(nav, fmt.Sprintf("上一页: --page %d", p.PrevPage()))
		}
		if p.HasNext() {
			nav = append(nav, fmt.Sprintf("下一页: --page %d", p.NextPage()))
		}
		if len(nav) > 0 {
			fmt.Fprintln(w, strings.Join(nav, "  "))
		}
	}
}

// WriteDetailsText 把详情写成终端文本。
func WriteDetailsText(w io.Writer, d domain.MovieDetails) {
	p := newDetailsPage(d)

	fmt.Fprintf(w, "%s (id=%d)\n", p.Title, p.ID)
	if p.PosterURL != "" {
		fmt.Fprintf(w, "poster: %s\n", p.PosterURL)
	}
	fmt.Fprintf(w, "Overview: %s\n", p.Overview)
	fmt.Fprintf(w, "Genres: %s\n", p.Genres)
	fmt.Fprintf(w, "Release Date: %s\n", p.ReleaseDate)
	fmt.Fprintf(w, "Runtime: %d min\n", p.Runtime)
	fmt.Fprintln(w, "Cast:")
	for _, c := range p.Cast {
		fmt.Fprintf(w, "  - %s as %s\n", c.Name, c.Character)
	}
	if p.TrailerURL != "" {
		fmt.Fprintf(w, "Trailer: %s\n", p.TrailerURL)
	} else {
		fmt.Fprintln(w, NoTrailer)
	}
}

// WriteHistoryText 输出最近搜索（最新的在前）。
func WriteHistoryText(w io.Writer, terms []string) {
	if len(terms) == 0 {
		fmt.Fprintln(w, "没有最近搜索")
		return
	}
	fmt.Fprintln(w, "最近搜索：")
	for i, t := range terms {
		fmt.Fprintf(w, "  %d. %s\n", i+1, t)
	}
}

// Truncate 按 rune 截断到 max 个字符，超出时以 "..." 结尾。
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
