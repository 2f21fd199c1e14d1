// Package rediscache persists the last-known-good snapshot to Redis so
// a fresh process can render data before its first fetch completes.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// Cache implements ports.SnapshotCache using Redis.
type Cache struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for the stored snapshot.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithKey sets the Redis key for the snapshot.
func WithKey(key string) Option {
	return func(c *Cache) {
		c.key = key
	}
}

// New creates a Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		key:    "tend:snapshot",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save persists the collections as one JSON value.
func (c *Cache) Save(ctx context.Context, data domain.Collections) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}

// Load retrieves the persisted collections.
func (c *Cache) Load(ctx context.Context) (domain.Collections, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.Collections{}, ports.ErrNoSnapshot
		}
		return domain.Collections{}, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var data domain.Collections
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return domain.Collections{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return data, nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
