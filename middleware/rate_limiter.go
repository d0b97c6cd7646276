// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	endpointLimits map[string]struct {
		limit rate.Limit
		burst int
	}
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:          make(map[string]*rate.Limiter),
		mu:           &sync.RWMutex{},
		defaultLimit: rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst: 20,
		endpointLimits: make(map[string]struct {
			limit rate.Limit
			burst int
		}),
	}

	// Tighter limits for auth and booking creation
	limiter.endpointLimits["/api/v1/auth/login"] = struct {
		limit rate.Limit
		burst int
	}{rate.Every(time.Second), 5}
	limiter.endpointLimits["/api/v1/bookings"] = struct {
		limit rate.Limit
		burst int
	}{rate.Every(500 * time.Millisecond), 10}

	return limiter
}

func (rl *RateLimiter) getLimiter(ip, path string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := ip + path
	if limiter, ok := rl.ips[key]; ok {
		return limiter
	}

	limit := rl.defaultLimit
	burst := rl.defaultBurst
	if endpointLimit, ok := rl.endpointLimits[path]; ok {
		limit = endpointLimit.limit
		burst = endpointLimit.burst
	}

	limiter := rate.NewLimiter(limit, burst)
	rl.ips[key] = limiter
	return limiter
}

// RateLimit limits requests per client IP, with per-endpoint overrides.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(c.RealIP(), c.Path())
			if !limiter.Allow() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
