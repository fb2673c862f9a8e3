package security

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter implements a fixed-window token bucket per client. It guards
// the endpoints that write to the student registry.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter
// rate: number of requests allowed per window
// window: time window for rate limiting
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	// Start cleanup goroutine
	go rl.cleanupVisitors(time.Hour)
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow checks if a request from a client should be allowed
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[client]
	if !exists || now.Sub(v.lastRefill) >= rl.window {
		v = &visitor{tokens: rl.rate, lastRefill: now}
		rl.visitors[client] = v
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cleanupVisitors removes old visitor entries to prevent memory leaks
func (rl *RateLimiter) cleanupVisitors(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for client, v := range rl.visitors {
		if now.Sub(v.lastRefill) > rl.window*2 {
			delete(rl.visitors, client)
		}
	}
}

// GetClientIP returns the host part of RemoteAddr. Forwarding headers are
// not read here; behind a trusted proxy the router rewrites RemoteAddr
// from them first.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
