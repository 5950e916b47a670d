package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsCacheKey = "orders:stats"

// StatsCache keeps the dashboard overview in Redis so repeated dashboard
// loads do not hit the aggregate query.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache constructs a StatsCache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats and whether the cache was warm. Cache errors
// degrade to a miss.
func (c *StatsCache) Get(ctx context.Context) (Stats, bool) {
	payload, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return Stats{}, false
	}
	var stats Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return Stats{}, false
	}
	return stats, true
}

// Set stores the stats with the configured TTL. Failures are ignored; the
// cache is an optimisation, not a source of truth.
func (c *StatsCache) Set(ctx context.Context, stats Stats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, statsCacheKey, payload, c.ttl).Err()
}

// Invalidate drops the cached stats after an order mutation.
func (c *StatsCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, statsCacheKey).Err()
}
