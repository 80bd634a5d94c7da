// Package ratelimit provides the in-process sliding-window limiter guarding
// privileged console actions. It is independent of the per-IP HTTP limiter
// installed in the middleware stack.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// LimitExceededError reports that a key has exhausted its window.
type LimitExceededError struct {
	Key   Key
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit of %d exceeded for %s/%s", e.Limit, e.Key.AdminID, e.Key.Action)
}

// Key identifies one bucket: a single admin invoking a single action.
type Key struct {
	AdminID string
	Action  string
}

type bucket struct {
	mu   sync.Mutex
	hits []time.Time
}

// Limiter is a concurrency-safe sliding-window counter. Buckets are created
// lazily and live for the process lifetime; there is no cross-process state.
type Limiter struct {
	mu      sync.Mutex
	buckets map[Key]*bucket
	now     func() time.Time
}

// New constructs an empty Limiter.
func New() *Limiter {
	return &Limiter{
		buckets: make(map[Key]*bucket),
		now:     time.Now,
	}
}

// Hit records an attempt for key. Entries older than window are dropped, and
// if the remaining count has reached limit the attempt is rejected without
// being recorded. Trim, check and append happen under the bucket lock so
// concurrent requests cannot all slip under the limit. A zero limit or window
// disables limiting.
func (l *Limiter) Hit(key Key, limit int, window time.Duration) error {
	if limit <= 0 || window <= 0 {
		return nil
	}

	b := l.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	boundary := now.Add(-window)
	kept := b.hits[:0]
	for _, hit := range b.hits {
		if hit.After(boundary) {
			kept = append(kept, hit)
		}
	}
	b.hits = kept

	if len(b.hits) >= limit {
		return &LimitExceededError{Key: key, Limit: limit}
	}
	b.hits = append(b.hits, now)
	return nil
}

func (l *Limiter) bucket(key Key) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	return b
}
