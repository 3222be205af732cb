// Package ratelimit throttles login attempts per client key with an
// in-memory sliding window. State is per process and is lost on restart.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultMaxAttempts is the number of attempts allowed inside one window.
	DefaultMaxAttempts = 5
	// DefaultWindow is the trailing interval attempts are counted over.
	DefaultWindow = 60 * time.Second
)

// Decision is the outcome of CheckAndRecord.
type Decision int

const (
	Allowed Decision = iota
	Throttled
)

func (d Decision) String() string {
	if d == Throttled {
		return "throttled"
	}
	return "allowed"
}

// LoginLimiter holds the login attempt ledger.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter builds an empty ledger. Non-positive arguments fall back to the defaults.
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      maxAttempts,
		window:   window,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (l *LoginLimiter) WithClock(now func() time.Time) *LoginLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// CheckAndRecord prunes key's expired attempts, then either throttles
// without recording or records now and allows. The whole step is atomic.
func (l *LoginLimiter) CheckAndRecord(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := prune(l.attempts[key], now.Add(-l.window))
	if len(kept) >= l.max {
		l.attempts[key] = kept
		return Throttled
	}
	l.attempts[key] = append(kept, now)
	return Allowed
}

// Sweep drops keys with no attempt left inside the window and returns how many were removed.
func (l *LoginLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for key, stamps := range l.attempts {
		if len(prune(stamps, cutoff)) == 0 {
			delete(l.attempts, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// prune keeps timestamps newer than cutoff. Timestamps are appended in order,
// so the first kept one marks the start of the live suffix.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range stamps {
		if ts.After(cutoff) {
			return stamps[i:]
		}
	}
	return stamps[:0]
}
