package middleware

import (
	"net/http"
	"sync"
	"time"

	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterOptions configures the per-client rate limiter
type RateLimiterOptions struct {
	// Limit is the sustained requests per second per client
	Limit rate.Limit
	// Burst is the number of requests a client may send at once
	Burst int
	// ClientTTL is how long idle client state is kept in memory
	ClientTTL time.Duration
	// KeyFunc derives the limiting key from a request
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimiterOptions pulls limits from the Security config section
func DefaultRateLimiterOptions() RateLimiterOptions {
	cfg := config.Get()
	return RateLimiterOptions{
		Limit:     rate.Limit(cfg.Security.RateLimit),
		Burst:     cfg.Security.RateLimitBurst,
		ClientTTL: time.Hour,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles each client independently with a token bucket
type RateLimiter struct {
	mu      sync.Mutex
	options RateLimiterOptions
	clients map[string]*limitedClient
	log     *logger.Logger
}

// NewRateLimiter creates a rate limiter; omit options to use the configured
// defaults
func NewRateLimiter(log *logger.Logger, options ...RateLimiterOptions) *RateLimiter {
	opts := DefaultRateLimiterOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	rl := &RateLimiter{
		options: opts,
		clients: make(map[string]*limitedClient),
		log:     log,
	}

	go rl.evictIdleClients()
	return rl
}

// Middleware rejects requests over the per-client budget with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.options.KeyFunc(c)

		if !rl.allow(key) {
			rl.log.Warn("Rate limit exceeded", "client", key, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, slow down",
				},
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[key]
	if !ok {
		client = &limitedClient{
			limiter: rate.NewLimiter(rl.options.Limit, rl.options.Burst),
		}
		rl.clients[key] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// evictIdleClients drops state for clients not seen within the TTL
func (rl *RateLimiter) evictIdleClients() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, client := range rl.clients {
			if time.Since(client.lastSeen) > rl.options.ClientTTL {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}
