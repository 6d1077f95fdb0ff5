// Package ratelimit enforces a per-upstream request budget.
//
// Every genealogy upstream used by stamboom is a small, donation-funded
// service. One limiter instance guards one upstream host: a rolling
// window caps how many requests may be issued per minute, and a minimum
// per-call duration paces interactive traffic well below the upstream's
// abuse thresholds even when the window budget is not exhausted.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultBudget is the number of requests allowed per window
	DefaultBudget = 10
	// DefaultWindow is the rolling window duration
	DefaultWindow = 60 * time.Second
	// DefaultMinCall is the minimum duration of a non-fast call,
	// measured from Acquire to the release it returns
	DefaultMinCall = 3 * time.Second
)

// Limiter caps request throughput to a single upstream host.
//
// All callers targeting the same upstream must share one Limiter, so
// throughput stays globally capped regardless of caller concurrency.
// The window counters are the only mutable state and are never touched
// outside the mutex. Sleeps are not cancellable; callers on nested,
// non-interactive paths should pass fast=true to skip pacing (the hard
// window budget still applies).
type Limiter struct {
	mu sync.Mutex

	budget  int
	window  time.Duration
	minCall time.Duration

	windowStart time.Time
	count       int

	// Injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a limiter with the given budget per window and minimum
// per-call duration
func New(budget int, window, minCall time.Duration) *Limiter {
	return &Limiter{
		budget:  budget,
		window:  window,
		minCall: minCall,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// NewDefault creates a limiter with the default budget and pacing
func NewDefault() *Limiter {
	return New(DefaultBudget, DefaultWindow, DefaultMinCall)
}

// Acquire blocks until the caller may issue a request, and returns a
// release function to be called once the wrapped network call has
// completed. For non-fast acquisitions the release sleeps out whatever
// remains of the minimum call duration; for fast ones it is a no-op.
//
// The mutex is held across the budget sleep on purpose: a caller that
// has to wait for the window to roll over holds back everyone behind
// it, which is exactly the global cap the upstreams expect.
func (l *Limiter) Acquire(fast bool) (release func()) {
	l.mu.Lock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) > l.window {
		l.windowStart = now
		l.count = 0
	}

	if l.count >= l.budget {
		wait := l.windowStart.Add(l.window).Sub(now)
		if wait > 0 {
			l.sleep(wait)
		}
		l.windowStart = l.now()
		l.count = 0
	}

	l.count++
	start := l.now()
	l.mu.Unlock()

	if fast {
		return func() {}
	}

	return func() {
		elapsed := l.now().Sub(start)
		if remaining := l.minCall - elapsed; remaining > 0 {
			l.sleep(remaining)
		}
	}
}
