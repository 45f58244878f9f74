package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
)

// Dashboard bundles everything the owner dashboard renders in one read.
type Dashboard struct {
	Documents DocumentStats `json:"documents"`
	Journey   JourneyScore  `json:"journey"`
	// ComputedAt marks staleness for cached reads.
	ComputedAt time.Time `json:"computedAt"`
}

// Cache holds computed dashboards for their TTL. A miss returns ok=false, not
// an error.
type Cache interface {
	Get(ctx context.Context, owner domain.UserID) (Dashboard, bool, error)
	Set(ctx context.Context, owner domain.UserID, d Dashboard) error
	Invalidate(ctx context.Context, owner domain.UserID) error
}

// RedisCache stores dashboards as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a connected client. A non-positive TTL falls back to one
// minute.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func dashboardKey(owner domain.UserID) string {
	return "thiqax:dashboard:" + owner.String()
}

// Get returns the cached dashboard if present and unexpired.
func (c *RedisCache) Get(ctx context.Context, owner domain.UserID) (Dashboard, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Dashboard{}, false, nil
	}
	if err != nil {
		return Dashboard{}, false, fmt.Errorf("read dashboard cache: %w", err)
	}
	var d Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		return Dashboard{}, false, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return d, true, nil
}

// Set stores the dashboard under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, owner domain.UserID, d Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(owner), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached dashboard, forcing the next read to recompute.
func (c *RedisCache) Invalidate(ctx context.Context, owner domain.UserID) error {
	if err := c.client.Del(ctx, dashboardKey(owner)).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard cache: %w", err)
	}
	return nil
}

// NoopCache disables caching; every read recomputes.
type NoopCache struct{}

// Get always misses.
func (NoopCache) Get(context.Context, domain.UserID) (Dashboard, bool, error) {
	return Dashboard{}, false, nil
}

// Set discards the dashboard.
func (NoopCache) Set(context.Context, domain.UserID, Dashboard) error { return nil }

// Invalidate is a no-op.
func (NoopCache) Invalidate(context.Context, domain.UserID) error { return nil }
