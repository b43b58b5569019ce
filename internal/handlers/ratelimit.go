package handlers

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	limiters sync.Map // ip -> *rate.Limiter
	limit    rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func newIPLimiter(requests int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:       rate.Every(window / time.Duration(requests)),
		burst:       requests,
		lastCleanup: time.Now(),
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	if v, ok := l.limiters.Load(ip); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.limit, l.burst))
	l.cleanup()
	return v.(*rate.Limiter)
}

// cleanup drops idle buckets, at most once every five minutes.
func (l *ipLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()
	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit allows requests per window from each client IP, with the whole
// allowance available as a burst.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newIPLimiter(requests, window)

	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())
		if limiter.Allow() {
			c.Next()
			return
		}

		r := limiter.Reserve()
		retryAfter := max(int(r.Delay().Seconds()), 1)
		r.Cancel()

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		logging.FromContext(c.Request.Context()).Warn("rate limit exceeded",
			"ip", c.ClientIP(), "path", c.FullPath(), "retry_after", retryAfter)
		abort(c, ErrRateLimited)
	}
}
