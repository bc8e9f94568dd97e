// Package throttle implements fixed-window rate limiting for abuse-prone
// endpoints such as login.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one hit against a limiter.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts hits per key within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func decide(count int64, limit int, resetIn time.Duration) Decision {
	if count > int64(limit) {
		return Decision{Allowed: false, RetryAfter: resetIn}
	}
	return Decision{Allowed: true, Remaining: limit - int(count)}
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter keeps windows in process memory. It suits a single instance;
// use RedisLimiter when several instances share the limit.
type MemoryLimiter struct {
	limit int
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	sweepAt time.Time
}

// NewMemoryLimiter allows limit hits per key every ttl.
func NewMemoryLimiter(limit int, ttl time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		ttl:     ttl,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.ttl)}
		m.windows[key] = w
	}
	w.count++
	return decide(w.count, m.limit, w.resetAt.Sub(now)), nil
}

// sweep drops expired windows at most once per ttl.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Before(m.sweepAt) {
		return
	}
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
	m.sweepAt = now.Add(m.ttl)
}
