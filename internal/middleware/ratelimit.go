package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long an idle client's limiter is kept before eviction.
	limiterIdleTTL = 10 * time.Minute
	// limiterSweepInterval is how often idle limiters are evicted.
	limiterSweepInterval = 5 * time.Minute
)

// clientLimiter pairs a token bucket with its last activity time so idle
// clients can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP using token buckets.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

// NewRateLimiter creates a rate limiter allowing rps requests per second with
// the given burst per client. A background sweeper evicts idle clients.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}

	go rl.sweep()

	return rl
}

// sweep periodically removes limiters that have been idle past the TTL.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleTTL)
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if client.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow reports whether the client identified by ip may proceed.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// Middleware returns the gin handler enforcing the limit. Rejected requests
// receive a 429 with the standard error envelope.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			requestID := GetRequestID(c)

			if log := GetLogger(c); log != nil {
				log.Warn("Request rate limited", map[string]interface{}{
					"ip":         c.ClientIP(),
					"path":       c.Request.URL.Path,
					"request_id": requestID,
				})
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":       "RATE_LIMITED",
					"message":    "Too many requests, slow down",
					"request_id": requestID,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
