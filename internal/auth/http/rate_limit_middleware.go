package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleLimiterAge is how long an idle client IP keeps its token bucket before
// a cleanup sweep drops it.
const staleLimiterAge = time.Hour

// rateLimiterStore holds one token bucket per client IP.
type rateLimiterStore struct {
	limiters sync.Map // client IP -> *rateLimiterEntry
	rps      float64
	burst    int
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64 // unix nanoseconds
}

// RateLimitMiddleware enforces a per-IP token bucket on incoming requests.
//
// The API key is shared among all callers, so the client IP is the only
// signal separating one caller from another. c.ClientIP() resolves it through
// X-Forwarded-For and X-Real-IP before falling back to the connection's
// remote address. Rejected requests get a 429 with a Retry-After hint.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst}

	// Without the sweep, IP churn grows the store without bound.
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		limiter := store.limiterFor(clientIP)
		if limiter.Allow() {
			c.Next()
			return
		}

		reservation := limiter.Reserve()
		retryAfter := int(reservation.Delay().Seconds())
		reservation.Cancel()

		logger.Debug("rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Too many requests from this IP. Please retry after the specified delay.",
		})
		c.Abort()
	}
}

// limiterFor returns the bucket for an IP, creating it on first sight, and
// marks the entry as recently used.
func (s *rateLimiterStore) limiterFor(ip string) *rate.Limiter {
	entry := &rateLimiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
	if existing, loaded := s.limiters.LoadOrStore(ip, entry); loaded {
		entry = existing.(*rateLimiterEntry)
	}
	entry.lastAccess.Store(time.Now().UnixNano())
	return entry.limiter
}

// cleanupStale periodically drops buckets for IPs that have gone quiet.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now().Add(-staleLimiterAge))
		}
	}
}

// sweep removes entries last touched before the threshold.
func (s *rateLimiterStore) sweep(threshold time.Time) {
	cutoff := threshold.UnixNano()
	s.limiters.Range(func(key, value interface{}) bool {
		if value.(*rateLimiterEntry).lastAccess.Load() < cutoff {
			s.limiters.Delete(key)
		}
		return true
	})
}
