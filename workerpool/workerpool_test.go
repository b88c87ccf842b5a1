package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestParallelFor(t *testing.T) {
	cases := []struct {
		name    string
		workers int
		n       int
	}{
		{"single-worker", 1, 100},
		{"more-workers-than-items", 8, 3},
		{"even-split", 4, 16},
		{"empty-range", 4, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := New(c.workers)
			var count int64
			p.ParallelFor(0, c.n, func(i int) {
				atomic.AddInt64(&count, 1)
			})
			if int(count) != c.n {
				t.Fatalf("expected %d calls, got %d", c.n, count)
			}
		})
	}
}

func TestParallelForVisitsEachIndexOnce(t *testing.T) {
	p := New(4)
	const n = 37
	seen := make([]int32, n)
	p.ParallelFor(0, n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestParallelSum(t *testing.T) {
	p := New(4)
	total := p.ParallelSum(0, 100, func(i int) int64 { return int64(i) })
	if total != 4950 {
		t.Fatalf("expected 4950, got %d", total)
	}
}

func TestParallelSumEmptyRange(t *testing.T) {
	p := New(4)
	total := p.ParallelSum(5, 5, func(i int) int64 { return 1 })
	if total != 0 {
		t.Fatalf("expected 0, got %d", total)
	}
}

func TestWorkerCount(t *testing.T) {
	p := New(0)
	if p.WorkerCount() != 1 {
		t.Fatalf("expected worker count to floor to 1, got %d", p.WorkerCount())
	}
	p2 := New(6)
	if p2.WorkerCount() != 6 {
		t.Fatalf("expected worker count 6, got %d", p2.WorkerCount())
	}
}

func TestGlobalIsSingleton(t *testing.T) {
	if Global() != Global() {
		t.Fatal("Global() should return the same pool instance")
	}
}
