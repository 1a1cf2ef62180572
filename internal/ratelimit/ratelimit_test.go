package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(windowSize time.Duration, capacity int) (*Limiter, *time.Time) {
	l := NewLimiter(windowSize, capacity)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_CapacityPerWindow(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 100)
	key := uuid.New()

	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(key), "request %d should be admitted", i+1)
	}
	require.False(t, l.Allow(key), "101st request must be rejected")
	require.False(t, l.Allow(key), "rejections do not consume slots")
}

func TestLimiter_WindowReset(t *testing.T) {
	l, now := newTestLimiter(time.Minute, 2)
	key := uuid.New()

	require.True(t, l.Allow(key))
	require.True(t, l.Allow(key))
	require.False(t, l.Allow(key))

	// Just before the boundary the window still holds.
	*now = now.Add(59 * time.Second)
	require.False(t, l.Allow(key))

	// At the boundary the window resets fully.
	*now = now.Add(time.Second)
	require.True(t, l.Allow(key))
	require.True(t, l.Allow(key))
	require.False(t, l.Allow(key))
}

func TestLimiter_KeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 1)
	a, b := uuid.New(), uuid.New()

	require.True(t, l.Allow(a))
	require.False(t, l.Allow(a))
	require.True(t, l.Allow(b), "second key has its own window")
}

func TestLimiter_ConcurrentAdmissions(t *testing.T) {
	l := NewLimiter(time.Minute, 100)
	key := uuid.New()

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(key) {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 100, admitted, "exactly capacity admitted under contention")
}

func TestLimiter_Sweep(t *testing.T) {
	l, now := newTestLimiter(time.Minute, 5)
	stale, fresh := uuid.New(), uuid.New()

	require.True(t, l.Allow(stale))
	*now = now.Add(2 * time.Minute)
	require.True(t, l.Allow(fresh))

	removed := l.Sweep()
	require.Equal(t, 1, removed)

	// The fresh window survives intact.
	for i := 0; i < 4; i++ {
		require.True(t, l.Allow(fresh))
	}
	require.False(t, l.Allow(fresh))
}
