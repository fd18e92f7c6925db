package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/domain"
)

// Fixed keys of the durable local cache. Values are serialized whole
// documents; entries never expire and serve purely as last-resort fallback.
const (
	KeyRegionData   = "unified_region_data"
	KeyOfflineQueue = "offline_operation_queue"
	KeyLastSync     = "last_cloud_sync"
)

// KV is the durable local cache: byte values under fixed string keys.
// Get returns domain.ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// NewKV builds the configured durable cache adapter. The memory adapter keeps
// cache-less deployments and tests working without a redis instance.
func NewKV(cfg config.Cache) (KV, error) {
	if cfg.Type == config.CacheTypeMemory {
		return NewMemoryKV(), nil
	}

	client, err := NewRedis(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}
	return NewRedisKV(client), nil
}

type redisKV struct {
	client redis.UniversalClient
}

// NewRedisKV wraps a redis client as the durable local cache.
func NewRedisKV(client redis.UniversalClient) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %q failed: %w", key, err)
	}
	return value, nil
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q failed: %w", key, err)
	}
	return nil
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q failed: %w", key, err)
	}
	return nil
}
