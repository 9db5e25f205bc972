package enrich

import (
	"time"

	"github.com/SagarThayat/movie-explorer-app/internal/domain"
)

// Observer 把 enrich 进度从核心流程中解耦出来。
//
// 约束：
// - enrich 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）
// - 实现必须并发安全：OnItemDone 可能来自多个 goroutine
type Observer interface {
	// OnStart 在开始 enrich 前调用；workers 为实际并发上限。
	OnStart(total, workers int)
	// OnItemDone 在单条电影的两个 enrich 调用都结束后调用；done 为已完成数量（1 起）。
	OnItemDone(done, total int, m domain.EnrichedMovie, dur time.Duration)
	// OnFinish 在整批完成后调用。
	OnFinish(total int, elapsed time.Duration)
}
