package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"imghost/models"
)

// rateLimit counts requests per client IP in fixed windows. Counters are reset
// lazily on the first request after the window ends.
type rateLimit struct {
	mu          sync.Mutex
	visitors    map[string]int
	limit       int
	resetTime   time.Duration
	windowStart time.Time
	now         func() time.Time
}

func NewRateLimiter(limit int, resetTime time.Duration) *rateLimit {
	return &rateLimit{
		visitors:  make(map[string]int),
		limit:     limit,
		resetTime: resetTime,
		now:       time.Now,
	}
}

func (rl *rateLimit) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.windowStart) >= rl.resetTime {
		rl.visitors = make(map[string]int)
		rl.windowStart = now
	}

	rl.visitors[ip]++
	return rl.visitors[ip] <= rl.limit
}

func (rl *rateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header(blockedReasonHeader, "Rate-Limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: "Too many requests, try again later",
			})
			return
		}
		c.Next()
	}
}
