package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const rateLimitMessage = "Too many requests, please try again later."

type visitor struct {
	count       int
	windowStart time.Time
}

// RateLimiter applies one shared per-client-address limit across all
// endpoints: at most `limit` requests inside a fixed `window`, rejected
// immediately once exhausted (no queueing). The counter resets when a
// request arrives after the window has elapsed; there is no mid-window
// refill.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	stop     chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		stop:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) allow(addr string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[addr]
	if !ok || now.Sub(v.windowStart) >= rl.window {
		v = &visitor{windowStart: now}
		rl.visitors[addr] = v
	}
	v.count++
	return v.count <= rl.limit
}

// sweep drops visitors whose window has expired so the map does not grow
// without bound.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.window)
			for addr, v := range rl.visitors {
				if v.windowStart.Before(cutoff) {
					delete(rl.visitors, addr)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		if !rl.allow(addr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"` + rateLimitMessage + `"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
