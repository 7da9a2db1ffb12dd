// Package cache provides an optional Redis client wrapper. A nil *Cache is a
// valid no-op cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CourseListKey holds the public course listing.
const CourseListKey = "courses:list"

// Cache wraps a Redis client.
type Cache struct {
	Client *redis.Client
}

// Default is the process-wide cache; nil when CACHE_URL is not set.
var Default *Cache

// New creates a cache client and pings it.
func New(ctx context.Context, url string) (*Cache, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client}, nil
}

// Connect sets Default. Failure is logged and leaves caching disabled.
func Connect(url string) {
	if url == "" {
		log.Println("[CACHE] CACHE_URL not set, caching disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := New(ctx, url)
	if err != nil {
		log.Printf("[CACHE] Redis unavailable, caching disabled: %v", err)
		return
	}
	Default = c
	log.Println("[CACHE] Connected to redis")
}

// GetJSON decodes the value at key into dst. It reports false on a miss, a
// disabled cache, or an undecodable value.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}

	val, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(val, dst) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[CACHE] encode %s: %v", key, err)
		return
	}
	if err := c.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[CACHE] set %s: %v", key, err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] delete %v: %v", keys, err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.Client.Close()
}
