package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMessage is returned to clients that exceed the auth attempt budget.
const RateLimitMessage = "Too many attempts from this IP, please try again after 15 minutes"

// RateLimiter 按来源地址限制请求次数：固定窗口内最多 max 次，窗口结束后才重新计数。
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	max       int
	window    time.Duration
	lastSweep time.Time
	message   string
	now       func() time.Time
}

type visitor struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter builds a per-address limiter. Non-positive values fall back to 4 requests per 15 minutes.
func NewRateLimiter(window time.Duration, max int, message string) *RateLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	if max <= 0 {
		max = 4
	}
	if message == "" {
		message = RateLimitMessage
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		max:      max,
		window:   window,
		message:  message,
		now:      time.Now,
	}
}

// Allow reports whether one more request from key fits in the budget.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok || !now.Before(v.resetAt) {
		v = &visitor{resetAt: now.Add(l.window)}
		l.visitors[key] = v
	}
	if v.count >= l.max {
		return false
	}
	v.count++
	return true
}

// sweep 清理窗口已经结束的地址。
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, v := range l.visitors {
		if !now.Before(v.resetAt) {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}

// Middleware rejects over-budget requests before the wrapped handler runs.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, l.message)
			c.Abort()
			return
		}
		c.Next()
	}
}
