package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/samistat08/ro-process-dashboard/internal/metrics"
)

// snapshotCache is a nil-tolerant Redis wrapper: with no client configured
// every lookup is a miss and every store is a no-op.
type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newSnapshotCache(client *redis.Client, ttl time.Duration) *snapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &snapshotCache{client: client, ttl: ttl}
}

func (c *snapshotCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}

	metrics.CacheHits.Inc()
	return true
}

func (c *snapshotCache) set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}
