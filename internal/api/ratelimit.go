package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig allows Requests per Window for each user.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Per-user limits for the expensive endpoints.
var (
	AnalysisLimit          = RateLimitConfig{Requests: 10, Window: 15 * time.Minute}
	OnboardingMessageLimit = RateLimitConfig{Requests: 60, Window: 5 * time.Minute}
	OnboardingStartLimit   = RateLimitConfig{Requests: 6, Window: 15 * time.Minute}
)

// RateLimiter keeps one token bucket per user. A full bucket holds
// Requests tokens and refills over Window. Buckets idle for a whole Window
// are full again and get dropped.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	retry     time.Duration
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	interval := cfg.Window / time.Duration(max(1, cfg.Requests))
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(interval),
		burst:   cfg.Requests,
		retry:   interval,
		idle:    max(cfg.Window, time.Second),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep drops idle buckets, at most once per idle period.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Limit wraps next and answers 429 once the caller's bucket is empty.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(userKey(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.retry.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next(w, r)
	}
}

// userKey identifies the caller by X-User-ID, falling back to the remote
// host.
func userKey(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
