// Package rds provides a small redis client for short lived keyed blobs
package rds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key
	Prefix string
}

// RDS wraps a redis client
type RDS struct {
	client *redis.Client
	prefix string
}

// Open connects and pings
func Open(ctx context.Context, cfg Config) (*RDS, error) {
	c := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return New(c, cfg.Prefix), nil
}

// New wraps an existing client
func New(c *redis.Client, prefix string) *RDS { return &RDS{client: c, prefix: prefix} }

// Get reads key; ok is false when the key does not exist
func (r *RDS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Take reads and deletes key in one step
func (r *RDS) Take(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.GetDel(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Set writes key with a ttl; zero ttl keeps the key until deleted
func (r *RDS) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, val, ttl).Err()
}

// Del removes keys
func (r *RDS) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}

// Ping checks connectivity
func (r *RDS) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// Close closes the client
func (r *RDS) Close() error { return r.client.Close() }
