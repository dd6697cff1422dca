package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"icare-http-service/internal/error/code"
	"icare-http-service/internal/error/response"
)

// TokenBucket is a simple token bucket limiter
type TokenBucket struct {
	rate       float64 // tokens added per second
	capacity   int
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket that starts full
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

type limiterEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

type limiterRegistry struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func (r *limiterRegistry) get(key string, rate float64, burst int) *TokenBucket {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &limiterEntry{bucket: NewTokenBucket(rate, burst)}
		r.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.bucket
}

func (r *limiterRegistry) evictIdle(idle time.Duration) {
	cutoff := time.Now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(r.entries, key)
		}
	}
}

var limiters = &limiterRegistry{entries: make(map[string]*limiterEntry)}

func init() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiters.evictIdle(time.Hour)
		}
	}()
}

// RateLimiterConfig controls one rate limiting middleware instance
type RateLimiterConfig struct {
	Rate      float64 // requests per second
	Burst     int
	LimitType string // "ip", "path", "combined"
}

// RateLimiter limits request rate per client IP, path, or both.
// The fall-alert ingest stays unthrottled; this protects the
// dashboard query endpoints from a misbehaving poller.
func RateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	return func(c *gin.Context) {
		var key string
		switch cfg.LimitType {
		case "path":
			key = c.Request.URL.Path
		case "combined":
			key = c.ClientIP() + ":" + c.Request.URL.Path
		default:
			key = c.ClientIP()
		}

		if !limiters.get(key, cfg.Rate, cfg.Burst).Allow() {
			response.Fail(c, code.ErrTooManyRequests, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IPRateLimiter limits by client IP
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "ip"})
}

// CombinedRateLimiter limits by client IP and path together
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "combined"})
}
