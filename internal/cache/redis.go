package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/parlay-advisor/internal/metrics"
)

const keyPrefix = "parlay:"

// RedisOptions configures the Redis backend
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore shares cached upstream responses across instances
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. The connection is established lazily.
func NewRedisStore(opts RedisOptions) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl: opts.TTL,
	}
}

// ConnectRedis creates a Redis-backed store and verifies the server is reachable
func ConnectRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	store := NewRedisStore(opts)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return store, nil
}

func redisKey(key string) string { return keyPrefix + key }

// Get retrieves a cached value
func (r *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	metrics.RecordCacheLookup(true)
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value in cache
func (r *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, redisKey(key), b, ttl).Err()
}

// Ping checks the Redis server is reachable
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
