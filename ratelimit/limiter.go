// Package ratelimit provides per-endpoint token bucket rate limiting for
// inbound deliveries.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements token bucket rate limiting per endpoint. The receive
// path never blocks: a delivery over the limit is rejected, not queued.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens    float64
	lastFill  time.Time
	rateLimit float64 // tokens per second
}

// New creates a new rate limiter.
func New() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow checks whether an endpoint may accept another delivery.
// A rateLimit of 0 means unlimited (always returns true).
func (l *Limiter) Allow(endpointID string, rateLimit int) bool {
	if rateLimit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.getOrCreateBucket(endpointID, float64(rateLimit))
	b.refill(l.now())

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget drops the bucket for an endpoint, typically on unregister.
func (l *Limiter) Forget(endpointID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, endpointID)
}

func (l *Limiter) getOrCreateBucket(endpointID string, rateLimit float64) *bucket {
	b, ok := l.buckets[endpointID]
	if !ok || b.rateLimit != rateLimit {
		b = &bucket{
			tokens:    rateLimit,
			lastFill:  l.now(),
			rateLimit: rateLimit,
		}
		l.buckets[endpointID] = b
	}
	return b
}

// refill adds tokens accumulated since the last fill, capped at one second's
// worth of burst.
func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastFill).Seconds()
	b.lastFill = now

	b.tokens += elapsed * b.rateLimit
	if b.tokens > b.rateLimit {
		b.tokens = b.rateLimit
	}
}
