// Package workerpool provides the fixed-size goroutine pool that every
// parallelizable kernel in the pipeline (resize, mip generation, alpha
// coverage, sharpening, blur, distance fields) schedules its per-row or
// per-slice work onto.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// Pool is a long-lived set of workers that ParallelFor/ParallelSum split
// ranged work across. Modeled after the job system's channel-backed
// worker goroutines, but scoped to synchronous fan-out/fan-in ranged work
// rather than a persistent task queue.
type Pool struct {
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
}

var global *Pool
var globalOnce sync.Once

// Global returns the process-wide default pool, sized to GOMAXPROCS.
func Global() *Pool {
	globalOnce.Do(func() {
		global = New(runtime.GOMAXPROCS(0))
	})
	return global
}

// New creates a Pool with the given worker count. A count <= 0 is
// replaced with 1.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{workers: workers, ctx: ctx, cancel: cancel}
}

// WorkerCount reports how many workers the pool schedules onto.
func (p *Pool) WorkerCount() int { return p.workers }

// GlobalContext returns the pool's root context, cancelled when Shutdown
// is called.
func (p *Pool) GlobalContext() context.Context { return p.ctx }

// Shutdown cancels the pool's context. Safe to call multiple times.
func (p *Pool) Shutdown() { p.cancel() }

// ParallelFor splits [begin, end) into contiguous chunks, one per worker,
// and calls body(i) for every i in range. It blocks until every chunk has
// completed. If end <= begin, it does nothing.
func (p *Pool) ParallelFor(begin, end int, body func(i int)) {
	if end <= begin {
		return
	}
	n := end - begin
	workers := p.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := begin + w*chunk
		hi := lo + chunk
		if lo >= end {
			break
		}
		if hi > end {
			hi = end
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				body(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// ParallelSum splits [begin, end) the same way ParallelFor does, sums the
// per-index results of body, and returns the total. Used by the alpha
// coverage kernel to accumulate a texel count across rows in parallel.
func (p *Pool) ParallelSum(begin, end int, body func(i int) int64) int64 {
	if end <= begin {
		return 0
	}
	n := end - begin
	workers := p.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	partials := make([]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := begin + w*chunk
		hi := lo + chunk
		if lo >= end {
			break
		}
		if hi > end {
			hi = end
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var sum int64
			for i := lo; i < hi; i++ {
				sum += body(i)
			}
			partials[w] = sum
		}(w, lo, hi)
	}
	wg.Wait()

	var total int64
	for _, s := range partials {
		total += s
	}
	return total
}
