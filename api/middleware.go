package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id and writes one access-log line
// when it completes.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter allows n requests per window for each client IP.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*limitedClient
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

func newIPLimiter(n int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		clients:   make(map[string]*limitedClient),
		every:     rate.Every(window / time.Duration(n)),
		burst:     n,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	// idle clients are dropped on the next call after a sweep interval
	if now.Sub(l.lastSweep) > 5*time.Minute {
		for key, cl := range l.clients {
			if now.Sub(cl.lastSeen) > 10*time.Minute {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}
	cl, exists := l.clients[ip]
	if !exists {
		cl = &limitedClient{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	l.mu.Unlock()

	return cl.limiter.Allow()
}

func (l *ipLimiter) middleware(c *gin.Context) {
	if !l.allow(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many login attempts, try again later",
		})
		return
	}
	c.Next()
}
