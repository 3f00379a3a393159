package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/GTDGit/kicks_api/internal/utils"
)

// InvalidAuthRateLimiter throttles clients that keep presenting bad tokens.
// Limit: 5 attempts per minute per IP.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	every    time.Duration
	burst    int
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		limiters: make(map[string]*ipLimiter),
		every:    time.Minute / 5,
		burst:    5,
	}
	go rl.cleanup()
	return rl
}

// Allow records a failed attempt from ip and reports whether it is still
// within the limit.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rate.Every(r.every), r.burst)}
		r.limiters[ip] = l
	}
	l.lastSeen = time.Now()
	return l.limiter.Allow()
}

// Blocked reports whether ip has exhausted its attempts without consuming one.
func (r *InvalidAuthRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[ip]
	if !ok {
		return false
	}
	return l.limiter.Tokens() < 1
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, l := range r.limiters {
			if now.Sub(l.lastSeen) > time.Minute {
				delete(r.limiters, ip)
			}
		}
		r.mu.Unlock()
	}
}

// SyncRateLimiter caps how often a manual inventory sync may be triggered,
// across all admins. Each sync refetches the whole spreadsheet.
type SyncRateLimiter struct {
	limiter *rate.Limiter
}

// NewSyncRateLimiter allows perMinute syncs per minute with a matching burst.
// A non-positive perMinute disables the limit.
func NewSyncRateLimiter(perMinute int) *SyncRateLimiter {
	if perMinute <= 0 {
		return &SyncRateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &SyncRateLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)}
}

func (m *SyncRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.limiter.Allow() {
			c.Header("Retry-After", "60")
			utils.Error(c, http.StatusTooManyRequests, utils.ErrSyncRateLimited.Error(), "Too many sync requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
