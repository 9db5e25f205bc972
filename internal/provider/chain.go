package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

const (
	StageLookup = "lookup"
	StageEmpty  = "empty"
	StageOK     = "ok"
)

// ErrNoTrailer 表示所有 source 都没有给出预告片（包括“全部失败”与“全部无结果”）。
var ErrNoTrailer = errors.New("没有可用的预告片")

// Attempt 记录一次 source 尝试（用于解释 fallback 原因）。
// 注意：这是内部执行轨迹，由上层决定是否写日志。
type Attempt struct {
	Provider string // source name（小写）
	Stage    string // "lookup" / "empty" / "ok"
	Err      error  // 仅 Stage=="lookup" 时非 nil
}

// Error 是 source 阶段的可追溯错误。
type Error struct {
	Provider string
	Stage    string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s: %v", e.Provider, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ResolveTrailer 按 order 顺序尝试各 source，返回第一个非空结果。
func ResolveTrailer(ctx context.Context, reg Registry, order []string, title string, catalogID int64) (*domain.Trailer, error) {
	t, _, err := ResolveTrailerTrace(ctx, reg, order, title, catalogID)
	return t, err
}

// ResolveTrailerTrace 与 ResolveTrailer 相同，但额外返回尝试链路。
//
// 规则（有序降级，不并行）：
// - 某个 source 返回非空 trailer：立即返回，后续 source 不再调用
// - 返回 error 或无结果：记录 attempt，继续下一个
// - 全部落空：返回 ErrNoTrailer（若有 source 报错，错误链中包含最后一个 *Error）
func ResolveTrailerTrace(ctx context.Context, reg Registry, order []string, title string, catalogID int64) (*domain.Trailer, []Attempt, error) {
	if strings.TrimSpace(title) == "" && catalogID <= 0 {
		return nil, nil, fmt.Errorf("title 与 catalog id 不能同时为空")
	}
	if len(order) == 0 {
		order = DefaultTrailerOrder
	}

	attempts := make([]Attempt, 0, len(order))
	var lastErr error
	for _, name := range order {
		name = normName(name)
		s, ok := reg.Get(name)
		if !ok {
			lastErr = &Error{Provider: name, Stage: StageLookup, Err: fmt.Errorf("trailer source 未注册：%q", name)}
			attempts = append(attempts, Attempt{Provider: name, Stage: StageLookup, Err: lastErr})
			continue
		}

		t, err := s.Lookup(ctx, title, catalogID)
		if err != nil {
			lastErr = &Error{Provider: name, Stage: StageLookup, Err: err}
			attempts = append(attempts, Attempt{Provider: name, Stage: StageLookup, Err: err})
			continue
		}
		if t == nil || strings.TrimSpace(t.URL) == "" {
			attempts = append(attempts, Attempt{Provider: name, Stage: StageEmpty})
			continue
		}

		attempts = append(attempts, Attempt{Provider: name, Stage: StageOK})
		return t, attempts, nil
	}

	if lastErr != nil {
		return nil, attempts, fmt.Errorf("%w: %w", ErrNoTrailer, lastErr)
	}
	return nil, attempts, ErrNoTrailer
}
