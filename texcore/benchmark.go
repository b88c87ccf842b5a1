package texcore

import "time"

// Clock is a small start/stop/elapsed timer, used to time generation
// phases for logging purposes.
type Clock struct {
	startedAt time.Time
	elapsed   time.Duration
}

func NewClock() *Clock { return &Clock{} }

func (c *Clock) Start() {
	c.startedAt = time.Now()
	c.elapsed = 0
}

func (c *Clock) Stop() {
	if !c.startedAt.IsZero() {
		c.elapsed = time.Since(c.startedAt)
		c.startedAt = time.Time{}
	}
}

func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// BenchmarkScope times a named phase and logs its duration at debug
// level on return.
//
//	defer texcore.BenchmarkScope("ResizeMip2D")()
func BenchmarkScope(name string) func() {
	start := time.Now()
	return func() {
		LogDebug("%s took %s", name, time.Since(start))
	}
}
