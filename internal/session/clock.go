package session

import (
	"sync"
	"time"
)

// Clock is the tick source driving the per-scene countdown. The
// runtime never touches the wall clock directly, so tests can run a
// session on virtual time.
type Clock interface {
	Now() time.Time
	// Schedule invokes fn repeatedly at the given interval until the
	// returned stop function is called. Stop is idempotent.
	Schedule(interval time.Duration, fn func()) (stop func())
}

// RealClock drives ticks from a time.Ticker.
type RealClock struct{}

// NewRealClock returns the wall-clock implementation of Clock.
func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Schedule(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// ManualClock is a deterministic Clock for tests. Ticks happen only
// when the test calls Tick, and Now advances by the scheduled interval
// per tick.
type ManualClock struct {
	mu       sync.Mutex
	now      time.Time
	interval time.Duration
	fn       func()
}

// NewManualClock returns a ManualClock anchored at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Schedule(interval time.Duration, fn func()) func() {
	c.mu.Lock()
	c.interval = interval
	c.fn = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.fn = nil
	}
}

// Tick fires n scheduled ticks synchronously.
func (c *ManualClock) Tick(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		fn := c.fn
		c.now = c.now.Add(c.interval)
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}
