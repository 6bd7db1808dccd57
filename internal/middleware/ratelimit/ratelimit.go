// Package ratelimit caps requests per client in fixed one-minute windows.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

// Limiter tracks request counts per client key.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	limit    int
	now      func() time.Time
	rejected atomic.Int64
	requests atomic.Int64
}

type clientWindow struct {
	start    time.Time
	requests int
}

// NewLimiter allows requestsPerMinute requests per client. A limit of zero
// or less disables limiting.
func NewLimiter(requestsPerMinute int) *Limiter {
	return &Limiter{
		clients: make(map[string]*clientWindow),
		limit:   requestsPerMinute,
		now:     time.Now,
	}
}

// Enabled reports whether the limiter rejects anything at all.
func (rl *Limiter) Enabled() bool {
	return rl.limit > 0
}

// Allow records a request from client and reports whether it is within the limit.
func (rl *Limiter) Allow(client string) bool {
	rl.requests.Add(1)
	if !rl.Enabled() {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= window {
		rl.clients[client] = &clientWindow{start: now, requests: 1}
		rl.evictStale(now)
		return true
	}
	w.requests++
	if w.requests > rl.limit {
		rl.rejected.Add(1)
		return false
	}
	return true
}

// evictStale drops windows that ended long ago; callers hold mu.
func (rl *Limiter) evictStale(now time.Time) {
	for key, w := range rl.clients {
		if now.Sub(w.start) > 10*window {
			delete(rl.clients, key)
		}
	}
}

// Metrics for monitoring rate limit behavior
type Metrics struct {
	Requests int64
	Rejected int64
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	return Metrics{Requests: rl.requests.Load(), Rejected: rl.rejected.Load()}
}

// Middleware creates HTTP middleware for rate limiting
func (rl *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !rl.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
