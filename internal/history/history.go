// Package history 维护最近搜索词（最多 5 个，最新的在前）。
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SagarThayat/movie-explorer-app/internal/infra/kv"
)

// StorageKey 是持久化时使用的固定 key。
const StorageKey = "recentSearches"

// MaxEntries 是保留的最近搜索词数量上限。
const MaxEntries = 5

// SearchHistory 是并发安全的最近搜索列表。
//
// 不变量：
// - 条目互不重复（大小写敏感，按规范化后的字符串比较）
// - 最新的在前，长度 <= MaxEntries
// - 每次修改后立即写回 Store（写失败只记日志，内存状态仍然生效）
type SearchHistory struct {
	mu      sync.Mutex
	store   kv.Store
	logger  *slog.Logger
	entries []string
}

// Load 从 store 读取已保存的列表；内容损坏时从空列表开始。
func Load(ctx context.Context, store kv.Store, logger *slog.Logger) (*SearchHistory, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &SearchHistory{store: store, logger: logger, entries: []string{}}
	if store == nil {
		return h, nil
	}

	b, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("读取最近搜索失败：%w", err)
	}
	if !ok {
		return h, nil
	}

	var saved []string
	if err := json.Unmarshal(b, &saved); err != nil {
		logger.Warn("最近搜索数据损坏，已忽略", "err", err)
		return h, nil
	}
	h.entries = normalize(saved)
	return h, nil
}

// Add 把 term 放到最前面（已存在则移动），超出上限时丢弃最旧的。
// 空白 term 被忽略。
func (h *SearchHistory) Add(ctx context.Context, term string) []string {
	term = strings.Join(strings.Fields(term), " ")
	if term == "" {
		return h.List()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]string, 0, MaxEntries)
	next = append(next, term)
	for _, e := range h.entries {
		if e == term {
			continue
		}
		if len(next) == MaxEntries {
			break
		}
		next = append(next, e)
	}
	h.entries = next
	h.saveLocked(ctx)
	return clone(h.entries)
}

// Clear 清空列表。
func (h *SearchHistory) Clear(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = []string{}
	if h.store == nil {
		return
	}
	if err := h.store.Delete(ctx, StorageKey); err != nil {
		h.logger.Warn("清空最近搜索失败", "err", err)
	}
}

// List 返回当前列表的副本（最新的在前）。
func (h *SearchHistory) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.entries)
}

func (h *SearchHistory) saveLocked(ctx context.Context) {
	if h.store == nil {
		return
	}
	b, err := json.Marshal(h.entries)
	if err != nil {
		h.logger.Warn("序列化最近搜索失败", "err", err)
		return
	}
	if err := h.store.Put(ctx, StorageKey, b); err != nil {
		h.logger.Warn("保存最近搜索失败", "err", err)
	}
}

// normalize 去除空白与重复项，并截断到 MaxEntries（保持原顺序）。
func normalize(in []string) []string {
	out := make([]string, 0, MaxEntries)
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
