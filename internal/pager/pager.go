// package pager implements incremental rendering: a visible-count cursor that grows by a
// fixed step when the viewer nears the end of the list.
//
// A load is a two-phase transition. [Pager.Begin] raises the loading flag, and
// [Pager.Complete] grows the cursor and lowers it. While loading, further threshold
// crossings are ignored. Callers that want the delay handled for them use
// [Pager.Schedule] and must call [Pager.Stop] on teardown.
package pager

import (
	"sync"
	"time"
)

const (
	DefaultPageSize  = 30
	DefaultThreshold = 500
	DefaultDelay     = 500 * time.Millisecond
)

// Opts contains configuration options for creating a [Pager].
// A zero PageSize or Threshold falls back to the package default. A zero Delay completes
// scheduled loads immediately.
type Opts struct {
	PageSize  int
	Threshold int
	Delay     time.Duration
}

// Pager tracks how many items are visible. Safe for concurrent use.
type Pager struct {
	mu        sync.Mutex
	pageSize  int
	threshold int
	delay     time.Duration

	visible int
	loading bool
	timer   *time.Timer
	gen     uint64
}

// New creates a Pager showing one page.
func New(opts Opts) *Pager {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}

	return &Pager{
		pageSize:  opts.PageSize,
		threshold: opts.Threshold,
		delay:     opts.Delay,
		visible:   opts.PageSize,
	}
}

// Begin starts a load when distanceToEnd is within the threshold, no load is in progress
// and fewer than total items are visible. It reports whether a load started.
func (p *Pager) Begin(distanceToEnd, total int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.begin(distanceToEnd, total)
}

func (p *Pager) begin(distanceToEnd, total int) bool {
	if p.loading || distanceToEnd > p.threshold || p.visible >= total {
		return false
	}
	p.loading = true
	return true
}

// Complete finishes a load started by [Pager.Begin] or [Pager.Schedule], cancelling a
// pending scheduled completion. It is a no-op when nothing is loading.
func (p *Pager) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete()
}

func (p *Pager) complete() {
	if !p.loading {
		return
	}
	p.visible += p.pageSize
	p.loading = false
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Schedule is [Pager.Begin] followed by [Pager.Complete] after the configured delay.
// done, when non-nil, runs on the timer goroutine after the cursor grows.
func (p *Pager) Schedule(distanceToEnd, total int, done func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.begin(distanceToEnd, total) {
		return false
	}

	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(p.delay, func() {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		p.complete()
		p.mu.Unlock()

		if done != nil {
			done()
		}
	})
	return true
}

// Stop cancels a pending scheduled load. The cursor keeps its value.
func (p *Pager) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.loading = false
}

// Visible returns the current cursor.
func (p *Pager) Visible() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Loading reports whether a load is in progress.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// PageSize returns the growth step.
func (p *Pager) PageSize() int { return p.pageSize }

// Threshold returns the trailing distance that triggers a load.
func (p *Pager) Threshold() int { return p.threshold }

// Delay returns the scheduled load delay.
func (p *Pager) Delay() time.Duration { return p.delay }

// Slice returns the visible prefix of items.
func Slice[T any](p *Pager, items []T) []T {
	n := min(p.Visible(), len(items))
	return items[:n]
}
