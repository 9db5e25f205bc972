package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// 片名搜索词的最大长度（字符数）；超过视为误输入。
const MaxTermRunes = 200

// 允许的 movie id 变体："438631"、"tmdb:438631"、"tmdb 438631"。
var idRE = regexp.MustCompile(`(?i)^(?:tmdb[\s:_-]*)?([0-9]{1,10})$`)

// catalog 页面 URL 的路径：/movie/438631 或 /movie/438631-dune。
var moviePathRE = regexp.MustCompile(`^/(?:[a-z]{2}(?:-[A-Z]{2})?/)?movie/([0-9]{1,10})(?:-[^/]*)?/?$`)

const (
	KindEmptyTerm = "empty_term"
	KindLongTerm  = "long_term"
	KindBadID     = "bad_id"
	KindBadPage   = "bad_page"
)

// InvalidError 表示用户输入无法被接受（展示层据此返回 400 / exit 2）。
type InvalidError struct {
	Kind  string
	Input string
}

func (e *InvalidError) Error() string {
	switch e.Kind {
	case KindEmptyTerm:
		return "搜索词不能为空"
	case KindLongTerm:
		return fmt.Sprintf("搜索词过长（最多 %d 个字符）", MaxTermRunes)
	case KindBadID:
		return fmt.Sprintf("无法解析 movie id：%q（支持 438631 / tmdb:438631 / themoviedb.org 链接）", e.Input)
	case KindBadPage:
		return fmt.Sprintf("页码无效：%s", e.Input)
	default:
		return "输入无效"
	}
}

// ParseTerm 规范化搜索词：去除首尾空白并把连续空白折叠为一个空格。
func ParseTerm(s string) (string, error) {
	term := strings.Join(strings.Fields(s), " ")
	if term == "" {
		return "", &InvalidError{Kind: KindEmptyTerm, Input: s}
	}
	if len([]rune(term)) > MaxTermRunes {
		return "", &InvalidError{Kind: KindLongTerm, Input: s}
	}
	return term, nil
}

// ParseMovieID 从数字 id、带前缀的 id 或 catalog 页面 URL 中提取 movie id。
func ParseMovieID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &InvalidError{Kind: KindBadID, Input: s}
	}

	if m := idRE.FindStringSubmatch(s); m != nil {
		return toID(m[1], s)
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return 0, &InvalidError{Kind: KindBadID, Input: s}
	}
	host := strings.ToLower(u.Hostname())
	if host != "themoviedb.org" && !strings.HasSuffix(host, ".themoviedb.org") {
		return 0, &InvalidError{Kind: KindBadID, Input: s}
	}
	m := moviePathRE.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, &InvalidError{Kind: KindBadID, Input: s}
	}
	return toID(m[1], s)
}

func toID(digits, input string) (int64, error) {
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, &InvalidError{Kind: KindBadID, Input: input}
	}
	return id, nil
}

// ParsePage 解析页码参数；空串视为第 1 页。
func ParsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &InvalidError{Kind: KindBadPage, Input: strconv.Quote(s)}
	}
	return n, nil
}

// ValidatePage 校验页码在 [1, totalPages] 内；totalPages<=0 表示总页数未知，只校验下界。
func ValidatePage(page, totalPages int) error {
	if page < 1 {
		return &InvalidError{Kind: KindBadPage, Input: strconv.Itoa(page)}
	}
	if totalPages > 0 && page > totalPages {
		return &InvalidError{Kind: KindBadPage, Input: fmt.Sprintf("%d（共 %d 页）", page, totalPages)}
	}
	return nil
}
