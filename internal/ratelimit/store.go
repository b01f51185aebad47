// Package ratelimit backs echo's rate limiter middleware with Redis so the
// request budget is shared between instances.
package ratelimit

import (
	"context"
	"time"

	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"sigeu/internal/cache"
)

const keyPrefix = "ratelimit:"

// Store is a fixed-window counter per identifier.
type Store struct {
	cache  *cache.Client
	max    int64
	window time.Duration
}

var _ middleware.RateLimiterStore = (*Store)(nil)

// NewStore allows max requests per window and identifier.
func NewStore(c *cache.Client, max int, window time.Duration) *Store {
	return &Store{cache: c, max: int64(max), window: window}
}

// Allow counts the request. Redis failures let the request through.
func (s *Store) Allow(identifier string) (bool, error) {
	n := s.cache.Incr(context.Background(), keyPrefix+identifier, s.window)
	if n == 0 {
		return true, nil
	}
	return n <= s.max, nil
}

// For picks the Redis store when a cache is configured and the in-process
// limiter otherwise.
func For(c *cache.Client, max int, window time.Duration) middleware.RateLimiterStore {
	if c.Enabled() {
		return NewStore(c, max, window)
	}
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(max) / window.Seconds()),
		Burst:     max,
		ExpiresIn: window,
	})
}
