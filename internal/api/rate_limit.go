package api

import (
	"sync"
	"time"
)

// loginLimiter bounds failed-credential probing per client address over a
// sliding window. Stale windows are pruned opportunistically so the map does
// not grow with one-off addresses.
type loginLimiter struct {
	mu      sync.Mutex
	buckets map[string]*loginBucket
	limit   int
	window  time.Duration
}

type loginBucket struct {
	count   int
	started time.Time
}

func newLoginLimiter(limit int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		buckets: make(map[string]*loginBucket),
		limit:   limit,
		window:  window,
	}
}

func (l *loginLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) > 1024 {
		for k, b := range l.buckets {
			if now.Sub(b.started) >= l.window {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.started) >= l.window {
		l.buckets[key] = &loginBucket{count: 1, started: now}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}
