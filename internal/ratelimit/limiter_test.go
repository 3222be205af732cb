package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*LoginLimiter, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewLoginLimiter(DefaultMaxAttempts, DefaultWindow).WithClock(clk.Now), clk
}

func TestCheckAndRecord_SixthAttemptThrottled(t *testing.T) {
	l, clk := newTestLimiter()

	for i := 0; i < 5; i++ {
		require.Equal(t, Allowed, l.CheckAndRecord("k"), "attempt %d", i+1)
		clk.Advance(200 * time.Millisecond)
	}
	assert.Equal(t, Throttled, l.CheckAndRecord("k"))
	assert.Equal(t, Throttled, l.CheckAndRecord("k"), "throttled calls are not recorded but stay throttled")
	assert.Equal(t, Allowed, l.CheckAndRecord("other"))
}

func TestCheckAndRecord_WindowSlides(t *testing.T) {
	l, clk := newTestLimiter()

	for i := 0; i < 5; i++ {
		l.CheckAndRecord("k")
	}
	require.Equal(t, Throttled, l.CheckAndRecord("k"))

	clk.Advance(61 * time.Second)
	assert.Equal(t, Allowed, l.CheckAndRecord("k"))
}

func TestCheckAndRecord_PartialExpiry(t *testing.T) {
	l, clk := newTestLimiter()

	l.CheckAndRecord("k")
	l.CheckAndRecord("k")
	clk.Advance(30 * time.Second)
	l.CheckAndRecord("k")
	l.CheckAndRecord("k")
	l.CheckAndRecord("k")
	require.Equal(t, Throttled, l.CheckAndRecord("k"))

	// The first two fall out of the window; the last three remain.
	clk.Advance(31 * time.Second)
	assert.Equal(t, Allowed, l.CheckAndRecord("k"))
	assert.Equal(t, Allowed, l.CheckAndRecord("k"))
	assert.Equal(t, Throttled, l.CheckAndRecord("k"))
}

func TestCheckAndRecord_ExactWindowBoundaryHasExpired(t *testing.T) {
	l, clk := newTestLimiter()
	for i := 0; i < 5; i++ {
		l.CheckAndRecord("k")
	}
	clk.Advance(DefaultWindow)
	assert.Equal(t, Allowed, l.CheckAndRecord("k"))
}

func TestCheckAndRecord_Concurrent(t *testing.T) {
	l, _ := newTestLimiter()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CheckAndRecord("shared") == Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(DefaultMaxAttempts), allowed.Load())
}

func TestSweep(t *testing.T) {
	l, clk := newTestLimiter()
	l.CheckAndRecord("old")
	clk.Advance(45 * time.Second)
	l.CheckAndRecord("recent")
	clk.Advance(20 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Sweep())
}

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	assert.Equal(t, DefaultMaxAttempts, l.max)
	assert.Equal(t, DefaultWindow, l.window)
	assert.Equal(t, "throttled", Throttled.String())
	assert.Equal(t, "allowed", Allowed.String())
}
