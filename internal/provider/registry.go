package provider

import (
	"fmt"
	"strings"
)

const (
	SourceYouTube = "youtube"
	SourceTMDB    = "tmdb"
)

// DefaultTrailerOrder 是预告片解析的默认顺序：先 video-search，再 catalog 兜底。
var DefaultTrailerOrder = []string{SourceYouTube, SourceTMDB}

// Registry 是 trailer source 的只读注册表（按 name 索引）。
// 用 map 做 O(1) 查找；source 数量极小，保持简单即可。
type Registry struct {
	byName map[string]TrailerSource
}

func NewRegistry(sources ...TrailerSource) (Registry, error) {
	byName := make(map[string]TrailerSource, len(sources))
	for _, s := range sources {
		if s == nil {
			return Registry{}, fmt.Errorf("trailer source 不能为空")
		}
		name := normName(s.Name())
		if name == "" {
			return Registry{}, fmt.Errorf("trailer source 的 Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 trailer source：%q", name)
		}
		byName[name] = s
	}
	return Registry{byName: byName}, nil
}

func (r Registry) Get(name string) (TrailerSource, bool) {
	if r.byName == nil {
		return nil, false
	}
	s, ok := r.byName[normName(name)]
	return s, ok
}

// ValidateOrder 校验解析顺序：非空、无重复、只包含已知 source 名称。
func ValidateOrder(order []string) error {
	if len(order) == 0 {
		return fmt.Errorf("trailer_sources 不能为空")
	}
	seen := make(map[string]struct{}, len(order))
	for _, n := range order {
		n = normName(n)
		switch n {
		case SourceYouTube, SourceTMDB:
		default:
			return fmt.Errorf("trailer_sources 只能包含 %s 或 %s，实际是 %q", SourceYouTube, SourceTMDB, n)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("trailer_sources 重复：%q", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func normName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
