package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerUserBuckets(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Hour})

	assert.True(t, l.Allow("user:a"))
	assert.True(t, l.Allow("user:a"))
	assert.False(t, l.Allow("user:a"))
	assert.True(t, l.Allow("user:b"))
}

func TestRateLimiter_DropsIdleBuckets(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("ip:10.0.0.%d", i)))
	}
	assert.True(t, l.Allow("user:busy"))
	assert.True(t, l.Allow("user:busy"))
	assert.False(t, l.Allow("user:busy"))
	assert.Equal(t, 101, l.Len())

	// One token refills every 30s.
	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("user:busy"))
	assert.Equal(t, 101, l.Len())

	now = now.Add(45 * time.Second)
	assert.True(t, l.Allow("user:new"))
	assert.Equal(t, 2, l.Len())

	// user:busy was seen within the window, so its bucket kept its state.
	assert.True(t, l.Allow("user:busy"))
	assert.False(t, l.Allow("user:busy"))
}

func TestRateLimiter_LimitSetsRetryAfter(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
	h := l.Limit(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", nil)
	req.RemoteAddr = "10.0.0.7:5123"

	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestUserKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.4:9000"
	assert.Equal(t, "ip:192.168.1.4", userKey(req))

	req.Header.Set("X-User-ID", "u-42")
	assert.Equal(t, "user:u-42", userKey(req))
}
