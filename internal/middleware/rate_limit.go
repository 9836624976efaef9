package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Fixed global rate limit: 100 requests per 15-minute window per client IP,
// applied uniformly to all API traffic.
const (
	rateLimitWindow   = 15 * time.Minute
	rateLimitRequests = 100
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token-bucket limiter per client address.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{clients: make(map[string]*clientLimiter)}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.clients[ip]
	if !exists {
		// Refill spread across the window, full burst available up front.
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(rateLimitWindow/rateLimitRequests), rateLimitRequests),
		}
		rl.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// Cleanup drops limiters for clients that have been idle longer than the
// window. Called from the background worker in main.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cl := range rl.clients {
		if time.Since(cl.lastSeen) > rateLimitWindow {
			delete(rl.clients, ip)
		}
	}
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
