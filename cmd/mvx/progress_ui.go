package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/SagarThayat/movie-explorer-app/internal/app/enrich"
	"github.com/SagarThayat/movie-explorer-app/internal/domain"
	"github.com/SagarThayat/movie-explorer-app/internal/view"
)

var _ enrich.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的 enrich 进度输出。
//
// - 只写 stderr，不污染 stdout
// - 长时间没有条目完成时定期输出一行 keepalive
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	workers     int
	total       int
	done        int
	withTrailer int
	withRating  int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(total, workers int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.startedAt = now
	p.total = total
	p.workers = workers
	p.done, p.withTrailer, p.withRating = 0, 0, 0

	fmt.Fprintf(p.w, "[%s] enrich: movies=%d workers=%d\n", now.Format("15:04:05"), total, workers)
	p.lastPrinted = now
	if total > 0 && !p.tickerStarted {
		p.startTickerLocked()
	}
}

func (p *progressUI) OnItemDone(done, total int, m domain.EnrichedMovie, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = done
	p.total = total

	trailerNote := "trailer=-"
	if m.Trailer != nil {
		p.withTrailer++
		trailerNote = "trailer=" + m.Trailer.Provider
	}
	ratingNote := "imdb=" + domain.RatingNA
	if m.HasExtraRating() {
		p.withRating++
		ratingNote = "imdb=" + strings.TrimSpace(m.ExtraRating)
	}

	fmt.Fprintf(p.w, "[%d/%d] %s %s %s (%s)\n",
		done, total, view.Truncate(m.Title, 60), trailerNote, ratingNote, formatShortDuration(dur),
	)
	p.lastPrinted = time.Now()

	// 最后一条完成：停止 ticker，避免在结束打印后又冒出 keepalive。
	if p.tickerStarted && p.done >= p.total {
		p.stopTickerLocked()
	}
}

func (p *progressUI) OnFinish(total int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tickerStarted {
		p.stopTickerLocked()
	}
	fmt.Fprintf(p.w, "enrich 完成: movies=%d with_trailer=%d with_extra_rating=%d elapsed=%s\n",
		total, p.withTrailer, p.withRating, formatElapsed(elapsed),
	)
	p.lastPrinted = time.Now()
}

func (p *progressUI) stopTickerLocked() {
	close(p.stopCh)
	p.tickerStarted = false
}

func (p *progressUI) startTickerLocked() {
	stop := make(chan struct{})
	p.stopCh = stop
	p.tickerStarted = true

	interval := p.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 6 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if p.total > 0 && p.done >= p.total {
					p.mu.Unlock()
					return
				}
				if p.total > 0 && time.Since(p.lastPrinted) > threshold {
					active := p.workers
					if remain := p.total - p.done; remain < active {
						active = remain
					}
					fmt.Fprintf(p.w, "进度: done=%d/%d active=%d elapsed=%s\n",
						p.done, p.total, active, formatElapsed(time.Since(p.startedAt)),
					)
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
