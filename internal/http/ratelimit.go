package http

import (
	"sync"
	"time"
)

const (
	requestsPerMinute = 60
	cleanupInterval   = 5 * time.Minute
	staleAfter        = 10 * time.Minute
)

// rateLimiter counts requests per client IP over a rolling minute.
// State is in-memory only; a restart resets all counters.
type rateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

func (rl *rateLimiter) evictLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictStale()
		case <-rl.done:
			return
		}
	}
}

// evictStale drops buckets for clients that have gone quiet, keeping
// the map bounded by recent traffic rather than total traffic.
func (rl *rateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

// stop terminates the eviction goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow reports whether a request from clientIP is within the limit.
// The counter resets once a full minute has passed since the client's
// previous request.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[clientIP]
	if !ok {
		rl.buckets[clientIP] = &bucket{lastSeen: now, count: 1}
		return true
	}

	if now.Sub(b.lastSeen) > time.Minute {
		b.count = 1
		b.lastSeen = now
		return true
	}

	b.count++
	b.lastSeen = now
	return b.count <= requestsPerMinute
}
