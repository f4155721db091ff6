package storage

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists each key as a single JSON value in Redis. Values carry
// no TTL; snapshots live until the next overwrite.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the provided client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("storage.NewRedisStore: client is nil")
	}
	return &RedisStore{client: client}
}

// Save serializes value and overwrites any prior value under key.
func (r *RedisStore) Save(ctx context.Context, key string, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: save %q: %w", key, err)
	}
	return nil
}

// Load reads the value under key into out. A key that was never written
// reports found=false without an error.
func (r *RedisStore) Load(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: load %q: %w", key, err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}
