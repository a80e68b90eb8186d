package ratelimit

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter is the keyed fixed-window counter; backed by redis so limits hold
// across instances.
type Counter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Limiter struct {
	counter Counter
	window  time.Duration
	max     int64
}

func New(counter Counter, window time.Duration, max int64) *Limiter {
	return &Limiter{counter: counter, window: window, max: max}
}

// Middleware limits by client IP plus a route label. A counter store failure
// lets the request through; limiting is protective, not load-bearing.
func (l *Limiter) Middleware(label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := label + ":" + c.ClientIP()
		count, err := l.counter.IncrementWindow(c.Request.Context(), key, l.window)
		if err != nil {
			log.Printf("rate limit counter error for %s: %v", key, err)
			c.Next()
			return
		}
		if count > l.max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
