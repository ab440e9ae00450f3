package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/PhilipFalla/pokecollect-gui/internal/metrics"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// RequestLogger logs each request and records the HTTP metrics
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Use the route template so ids don't explode metric cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())

		logger.Info("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// maxTrackedIPs bounds the login limiter; the least recently seen IPs are
// forgotten first.
const maxTrackedIPs = 10000

// ipLimiter hands out one token bucket per client IP
type ipLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newIPLimiter(perMinute, size int) *ipLimiter {
	if size <= 0 {
		size = maxTrackedIPs
	}
	// lru.New only fails for a non-positive size
	limiters, _ := lru.New[string, *rate.Limiter](size)
	return &ipLimiter{
		limiters: limiters,
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(ip, limiter)
	}
	return limiter
}

// LoginRateLimit throttles credential checks per client IP. perMinute <= 0
// disables the limit.
func LoginRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(perMinute, maxTrackedIPs)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			metrics.LoginRateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Detail: "Too many login attempts, try again later"})
			return
		}
		c.Next()
	}
}
