package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-gateway/ratelimit"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(capacity int, window time.Duration) (*ratelimit.Limiter, *testClock) {
	clock := &testClock{now: time.Unix(1700000000, 0)}
	return ratelimit.New(capacity, window, ratelimit.WithNowFunc(clock.Now)), clock
}

func TestAllowAdmitsUpToCapacity(t *testing.T) {
	limiter, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		decision := limiter.Allow("192.0.2.1")
		require.True(t, decision.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 3, decision.Limit)
		require.Equal(t, 2-i, decision.Remaining)
		clock.Advance(time.Second)
	}

	decision := limiter.Allow("192.0.2.1")
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
	// The oldest timestamp expires 60s after it was recorded, 57s from now.
	require.Equal(t, 57*time.Second, decision.RetryAfter)
	require.Equal(t, clock.Now().Add(57*time.Second), decision.ResetAt)
}

func TestAllowAdmitsAgainAfterWindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow("192.0.2.1").Allowed)
	}
	require.False(t, limiter.Allow("192.0.2.1").Allowed)

	clock.Advance(61 * time.Second)
	require.True(t, limiter.Allow("192.0.2.1").Allowed)
}

func TestAllowKeysClientsIndependently(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	require.True(t, limiter.Allow("192.0.2.1").Allowed)
	require.False(t, limiter.Allow("192.0.2.1").Allowed)
	require.True(t, limiter.Allow("192.0.2.2").Allowed)
}

func TestSweepEvictsEmptyWindows(t *testing.T) {
	limiter, clock := newTestLimiter(3, time.Minute)

	limiter.Allow("192.0.2.1")
	limiter.Allow("192.0.2.2")
	require.Equal(t, 2, limiter.ActiveClients())

	clock.Advance(2 * time.Minute)
	limiter.Allow("192.0.2.3")
	require.Equal(t, 1, limiter.ActiveClients())
}

func TestReset(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	require.True(t, limiter.Allow("192.0.2.1").Allowed)
	require.False(t, limiter.Allow("192.0.2.1").Allowed)

	limiter.Reset()

	require.Equal(t, 0, limiter.ActiveClients())
	require.True(t, limiter.Allow("192.0.2.1").Allowed)
}

func TestConcurrentAllowAdmitsExactlyCapacity(t *testing.T) {
	limiter := ratelimit.New(50, time.Minute)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared").Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 50, admitted)
}
