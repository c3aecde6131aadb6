package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// window counts requests of one client inside a fixed window.
type window struct {
	count int
	reset time.Time
}

// limiter is a fixed-window counter keyed by client IP.
type limiter struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	windows map[string]*window
	now     func() time.Time
}

func newLimiter(limit int, per time.Duration) *limiter {
	return &limiter{limit: limit, per: per, windows: make(map[string]*window), now: time.Now}
}

// allow records one request for key. When the key is over its limit it
// returns false and the time left until the window resets.
func (l *limiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		l.prune(now)
		w = &window{reset: now.Add(l.per)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return false, w.reset.Sub(now)
	}
	w.count++
	return true, 0
}

func (l *limiter) prune(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.reset) {
			delete(l.windows, key)
		}
	}
}

// RateLimit allows limit requests per client IP in each window of length
// per. A non-positive limit disables the check.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		l := newLimiter(limit, per)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.allow(ClientIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
