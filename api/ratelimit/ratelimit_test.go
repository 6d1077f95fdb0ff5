package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter deterministically: sleeps advance the
// clock instead of blocking.
type fakeClock struct {
	mu     sync.Mutex
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) totalSlept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.sleeps {
		total += d
	}
	return total
}

func newTestLimiter(budget int, window, minCall time.Duration) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := New(budget, window, minCall)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestAcquireBlocksWhenBudgetExhausted(t *testing.T) {
	const budget = 10
	window := 60 * time.Second
	l, clock := newTestLimiter(budget, window, 0)

	windowStart := clock.now()

	// Exhaust the budget well inside the window
	for i := 0; i < budget; i++ {
		release := l.Acquire(true)
		release()
		clock.advance(time.Second)
	}

	if got := clock.totalSlept(); got != 0 {
		t.Fatalf("expected no sleeping within budget, slept %v", got)
	}

	// The (budget+1)th acquisition must block until windowStart+window
	release := l.Acquire(true)
	release()

	wantEnd := windowStart.Add(window)
	if clock.now().Before(wantEnd) {
		t.Errorf("acquisition admitted at %v, want no earlier than %v", clock.now(), wantEnd)
	}
	if len(clock.sleeps) != 1 {
		t.Errorf("expected exactly one budget sleep, got %d", len(clock.sleeps))
	}
}

func TestWindowResetsAfterElapsing(t *testing.T) {
	l, clock := newTestLimiter(2, 60*time.Second, 0)

	for i := 0; i < 2; i++ {
		l.Acquire(true)()
	}

	// Once the window has elapsed the counter starts over
	clock.advance(61 * time.Second)
	l.Acquire(true)()

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("expected no sleeping after window reset, slept %v", got)
	}
}

func TestReleasePacesSlowCalls(t *testing.T) {
	minCall := 3 * time.Second
	l, clock := newTestLimiter(10, 60*time.Second, minCall)

	release := l.Acquire(false)
	clock.advance(1 * time.Second) // the network call took 1s
	release()

	if got := clock.totalSlept(); got != 2*time.Second {
		t.Errorf("release slept %v, want 2s remainder of %v pacing", got, minCall)
	}
}

func TestReleaseSkipsPacingWhenCallWasSlow(t *testing.T) {
	l, clock := newTestLimiter(10, 60*time.Second, 3*time.Second)

	release := l.Acquire(false)
	clock.advance(5 * time.Second)
	release()

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("release slept %v, want 0 for a call slower than the pacing floor", got)
	}
}

func TestFastAcquireSkipsPacing(t *testing.T) {
	l, clock := newTestLimiter(10, 60*time.Second, 3*time.Second)

	release := l.Acquire(true)
	release()

	if got := clock.totalSlept(); got != 0 {
		t.Errorf("fast release slept %v, want 0", got)
	}
}

func TestConcurrentAcquisitionsSerialize(t *testing.T) {
	// Real clock, tiny durations: just verify that concurrent callers
	// never corrupt the counter past the budget within one window.
	l := New(5, time.Hour, 0)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Acquire(true)()
		}()
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count != 5 {
		t.Errorf("count = %d, want 5", l.count)
	}
}
