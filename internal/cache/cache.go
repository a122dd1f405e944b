// Package cache is a fail-safe Redis client: an unreachable Redis behaves
// like an empty cache and never fails the request that consulted it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/internal/logging"
)

// Client wraps redis.Client and swallows connectivity errors after logging them.
// A nil *Client is valid and caches nothing.
type Client struct {
	client *redis.Client
	log    logging.Logger
}

// New creates a new Redis client.
func New(addr, password string, db int, log logging.Logger) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts), log: log}
}

func (c *Client) disabled() bool {
	return c == nil || c.client == nil
}

func (c *Client) warn(ctx context.Context, op, key string, err error) {
	if c.log != nil {
		c.log.Warn(ctx, "redis unavailable, continuing without cache", "op", op, "key", key, "error", err)
	}
}

// Ping reports whether Redis answers. Used at startup for a log line only.
func (c *Client) Ping(ctx context.Context) error {
	if c.disabled() {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if c.disabled() {
		return nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		c.warn(ctx, "get", key, err)
		return nil
	}
	return res
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.disabled() {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.warn(ctx, "set", key, err)
	}
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c.disabled() {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.warn(ctx, "del", key, err)
	}
}

// Exists reports whether key is present; false when redis is unavailable.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if c.disabled() {
		return false
	}
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.warn(ctx, "exists", key, err)
		return false
	}
	return n > 0
}

// GetJSON decodes the cached value into dst and reports whether it was a hit.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes v and stores it with TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, payload, ttl)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.disabled() {
		return nil
	}
	return c.client.Close()
}
