package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UserHeader carries the authenticated user id, set by the upstream gateway.
const UserHeader = "X-User-ID"

// KeyedRateLimiter stores a rate limiter per caller key.
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	r        rate.Limit
	b        int
}

// NewKeyedRateLimiter creates a new KeyedRateLimiter.
func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the rate limiter for a key, creating it on first use.
func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.RLock()
	limiter, exists := k.limiters[key]
	k.mu.RUnlock()
	if exists {
		return limiter
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if limiter, exists := k.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(k.r, k.b)
	k.limiters[key] = limiter
	return limiter
}

// callerKey identifies the caller by user id, falling back to the client IP.
func callerKey(c *gin.Context) string {
	if user := c.GetHeader(UserHeader); user != "" {
		return "user:" + user
	}
	return "ip:" + c.ClientIP()
}

// RateLimiter is a middleware for per-caller rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(callerKey(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
