package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"charterbook/internal/availability"
	"charterbook/internal/entities"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache stores availability snapshots per date range. Get returns the
// key the snapshot belongs under so a later Set cannot overwrite a newer
// generation after an Invalidate.
type SnapshotCache interface {
	Get(ctx context.Context, rng entities.DateRange) (*availability.Snapshot, string, error)
	Set(ctx context.Context, key string, snap availability.Snapshot) error
	Invalidate(ctx context.Context) error
}

type RedisSnapshotCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, prefix string, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisSnapshotCache) versionKey() string {
	return c.prefix + ":version"
}

// Get returns a nil snapshot on a miss.
func (c *RedisSnapshotCache) Get(ctx context.Context, rng entities.DateRange) (*availability.Snapshot, string, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return nil, "", fmt.Errorf("read snapshot version: %w", err)
	}

	key := fmt.Sprintf("%s:v%s:%s:%s", c.prefix, version, rng.From, rng.To)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, nil
	}
	if err != nil {
		return nil, key, fmt.Errorf("read snapshot: %w", err)
	}

	var snap availability.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, key, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, key, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, key string, snap availability.Snapshot) error {
	if key == "" {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Invalidate bumps the version so every cached range misses.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("bump snapshot version: %w", err)
	}
	return nil
}

// NopSnapshotCache never hits. Used when Redis is not configured.
type NopSnapshotCache struct{}

func (NopSnapshotCache) Get(context.Context, entities.DateRange) (*availability.Snapshot, string, error) {
	return nil, "", nil
}

func (NopSnapshotCache) Set(context.Context, string, availability.Snapshot) error { return nil }

func (NopSnapshotCache) Invalidate(context.Context) error { return nil }
