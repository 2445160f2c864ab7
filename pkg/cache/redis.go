package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared cache backed by a Redis instance. TTL expiry is
// delegated to Redis; hit and miss counters are tracked per process.
type Redis[T any] struct {
	client   *redis.Client
	ttl      time.Duration
	prefix   string
	logger   *slog.Logger
	counters counters
}

// NewRedis creates a redis-backed cache from the given configuration.
// The connection is validated lazily on first use, not at construction.
func NewRedis[T any](cfg *Config, logger *slog.Logger) (*Redis[T], error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis driver requires addr")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &Redis[T]{
		client: client,
		ttl:    cfg.TTLDuration(),
		prefix: cfg.Redis.KeyPrefix,
		logger: logger.With("system", "cache"),
	}, nil
}

// Get returns the value for key if present. A decode failure evicts the
// corrupt entry and reports a miss.
func (r *Redis[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		r.counters.misses.Add(1)
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		r.counters.misses.Add(1)
		r.counters.evictions.Add(1)
		if delErr := r.client.Del(ctx, r.prefix+key).Err(); delErr != nil {
			r.logger.Warn("corrupt cache entry delete failed", "key", key, "error", delErr)
		}
		return nil, false, nil
	}

	r.counters.hits.Add(1)
	return &value, true, nil
}

// Put stores value under key with the configured TTL.
func (r *Redis[T]) Put(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}

// Stats returns a snapshot of per-process counters. Entry counts live in
// Redis and are not tracked here.
func (r *Redis[T]) Stats() Stats {
	return r.counters.snapshot(0)
}

// Close releases the underlying Redis connection.
func (r *Redis[T]) Close() error {
	return r.client.Close()
}
