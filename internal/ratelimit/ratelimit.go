// Package ratelimit limits how often a client may call the authentication
// endpoints.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Decision is the outcome of taking one request from a key's allowance.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the allowance is fully restored.
	ResetAt time.Time
	// RetryAfter is how long a rejected caller should wait. Zero when allowed.
	RetryAfter time.Duration
}

// Store consumes allowance for a key.
type Store interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// pruneThreshold is the bucket count above which full buckets are dropped.
const pruneThreshold = 10000

// bucket tracks the token state for a single key.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter implements an in-memory token-bucket Store. Each key starts with
// rate tokens, and tokens return at rate per window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time // injectable clock for testing
}

// New creates a Limiter that allows rate requests per window.
func New(rate int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
		now:     time.Now,
	}
}

// getBucket returns the bucket for key, creating one if it doesn't exist.
// Must be called with l.mu held.
func (l *Limiter) getBucket(key string) *bucket {
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= pruneThreshold {
			l.prune()
		}
		b = &bucket{
			tokens:     float64(l.rate),
			lastRefill: l.now(),
		}
		l.buckets[key] = b
	}
	return b
}

// refill adds tokens to the bucket based on elapsed time since the last refill.
// Must be called with l.mu held.
func (l *Limiter) refill(b *bucket) {
	now := l.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	b.tokens += elapsed * l.perSecond()
	if b.tokens > float64(l.rate) {
		b.tokens = float64(l.rate)
	}
	b.lastRefill = now
}

func (l *Limiter) perSecond() float64 {
	return float64(l.rate) / l.window.Seconds()
}

// prune drops buckets that have refilled completely; they are
// indistinguishable from new ones. Must be called with l.mu held.
func (l *Limiter) prune() {
	for key, b := range l.buckets {
		l.refill(b)
		if b.tokens >= float64(l.rate) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Take consumes one token for key when one is available.
func (l *Limiter) Take(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.getBucket(key)
	l.refill(b)

	d := Decision{Limit: l.rate}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
	} else {
		d.RetryAfter = time.Duration(math.Ceil((1 - b.tokens) * float64(l.window) / float64(l.rate)))
	}

	d.Remaining = int(b.tokens)
	if d.Remaining < 0 {
		d.Remaining = 0
	}

	// Time until full replenishment from current level.
	deficit := float64(l.rate) - b.tokens
	if deficit <= 0 {
		d.ResetAt = l.now()
	} else {
		d.ResetAt = l.now().Add(time.Duration(deficit * float64(l.window) / float64(l.rate)))
	}
	return d, nil
}
