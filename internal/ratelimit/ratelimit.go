package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const shardCount = 32

// window tracks admissions for one key inside one fixed window.
type window struct {
	start time.Time
	count int
}

type shard struct {
	mu      sync.Mutex
	windows map[uuid.UUID]*window
}

// Limiter is a fixed-window rate limiter keyed by API key ID. Each key
// gets up to capacity admissions per window; the window resets fully
// when it elapses, it does not slide.
type Limiter struct {
	window   time.Duration
	capacity int
	shards   [shardCount]*shard

	// now is swappable in tests
	now func() time.Time
}

// NewLimiter builds a limiter admitting capacity requests per window.
func NewLimiter(windowSize time.Duration, capacity int) *Limiter {
	l := &Limiter{
		window:   windowSize,
		capacity: capacity,
		now:      time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &shard{windows: make(map[uuid.UUID]*window)}
	}
	return l
}

// Allow reports whether one more request for key fits in the current
// window, and consumes a slot when it does. The decision and the
// consume are a single step under the shard lock, so concurrent
// callers can never jointly exceed capacity.
func (l *Limiter) Allow(key uuid.UUID) bool {
	s := l.shardFor(key)
	now := l.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		s.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.capacity {
		return false
	}
	w.count++
	return true
}

// Sweep drops windows that have already elapsed so idle keys do not
// hold memory forever. Live windows are untouched.
func (l *Limiter) Sweep() int {
	now := l.now()
	removed := 0
	for _, s := range l.shards {
		s.mu.Lock()
		for key, w := range s.windows {
			if now.Sub(w.start) >= l.window {
				delete(s.windows, key)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

func (l *Limiter) shardFor(key uuid.UUID) *shard {
	h := fnv.New32a()
	h.Write(key[:])
	return l.shards[h.Sum32()%shardCount]
}
