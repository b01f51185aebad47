package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client, or one built with an empty address, behaves like an
// always-empty store.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables Redis.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return &Client{}
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewFromRedis wraps an existing redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{client: rdb}
}

// Enabled reports whether a Redis server is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks server reachability. It returns nil when Redis is disabled.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// SetNX stores value only if key is absent and reports whether it did.
// When Redis is unavailable it reports true so callers proceed.
func (c *Client) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if !c.Enabled() {
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return true, nil
	}
	return ok, nil
}

// Exists reports whether key is present. Errors read as absent.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if !c.Enabled() {
		return false
	}
	n, err := c.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Incr increments a counter that lives for window after its first hit and
// returns the new value. Errors read as zero.
func (c *Client) Incr(ctx context.Context, key string, window time.Duration) int64 {
	if !c.Enabled() {
		return 0
	}
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	if n == 1 {
		_ = c.client.Expire(ctx, key, window).Err()
	}
	return n
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}
