package ratelimit

import (
	"sync"
	"time"
)

// Decision reports the outcome of one governed request, with enough detail
// for the caller to emit rate-limit and retry-after hints.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Window     time.Duration
	RetryAfter time.Duration // when rejected: until the oldest timestamp expires
	ResetAt    time.Time     // when the oldest timestamp in the window expires
}

// Limiter is a sliding-window admission filter keyed by client identity: at
// most N requests are admitted in any trailing window of length T. It is an
// explicitly owned structure passed into the request pipeline at startup; it
// never blocks on network or disk.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string][]time.Time
	capacity  int
	window    time.Duration
	lastSweep time.Time
	nowFunc   func() time.Time
}

type Option func(*Limiter)

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(l *Limiter) {
		l.nowFunc = now
	}
}

func New(capacity int, window time.Duration, options ...Option) *Limiter {
	l := &Limiter{
		clients:  make(map[string][]time.Time),
		capacity: capacity,
		window:   window,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	l.lastSweep = l.nowFunc()
	return l
}

// Allow purges expired timestamps from the client's window, then either
// admits the request (appending now) or rejects it. The check-then-append
// sequence is atomic under the lock, so two concurrent requests can never
// both claim the last slot.
func (l *Limiter) Allow(key string) Decision {
	now := l.nowFunc()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeSweep(now, cutoff)

	window := pruneExpired(l.clients[key], cutoff)

	if len(window) >= l.capacity {
		l.clients[key] = window
		resetAt := window[0].Add(l.window)
		return Decision{
			Allowed:    false,
			Limit:      l.capacity,
			Remaining:  0,
			Window:     l.window,
			RetryAfter: resetAt.Sub(now),
			ResetAt:    resetAt,
		}
	}

	window = append(window, now)
	l.clients[key] = window
	return Decision{
		Allowed:   true,
		Limit:     l.capacity,
		Remaining: l.capacity - len(window),
		Window:    l.window,
		ResetAt:   window[0].Add(l.window),
	}
}

// ActiveClients reports how many client keys currently hold a window.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Reset drops all windows. For tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clients = make(map[string][]time.Time)
	l.lastSweep = l.nowFunc()
}

// maybeSweep evicts clients whose windows have fully expired, bounding the
// key space. Runs at most once per window length, under the caller's lock.
func (l *Limiter) maybeSweep(now time.Time, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, window := range l.clients {
		live := pruneExpired(window, cutoff)
		if len(live) == 0 {
			delete(l.clients, key)
			continue
		}
		// Re-slice onto a fresh array so the expired prefix can be collected.
		l.clients[key] = append([]time.Time(nil), live...)
	}
	l.lastSweep = now
}

// pruneExpired drops the expired prefix. Timestamps are appended in order, so
// the first live entry bounds the scan.
func pruneExpired(window []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(window) && !window[idx].After(cutoff) {
		idx++
	}
	return window[idx:]
}
