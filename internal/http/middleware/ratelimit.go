package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	windowStart time.Time
	count       int
}

var rlMu sync.Mutex
var clients = make(map[string]*clientInfo)

// SimpleRateLimit blocks clients that send more than maxRequests per
// window. In-process fixed window keyed by client IP; used on auth
// routes where a shared store is not required.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		RLRequests.WithLabelValues(c.FullPath()).Inc()

		rlMu.Lock()
		ci, ok := clients[ip]
		now := time.Now()
		if !ok || now.Sub(ci.windowStart) > window {
			clients[ip] = &clientInfo{windowStart: now, count: 1}
			rlMu.Unlock()
			c.Next()
			return
		}

		ci.count++
		blocked := ci.count > maxRequests
		rlMu.Unlock()

		if blocked {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
