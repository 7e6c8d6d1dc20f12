package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

const statsTTL = 5 * time.Minute

// StatsCache caches vendor booking aggregates. The cache is best effort: a
// Redis failure degrades to a recompute, never to a request error.
// Key format: vendor_stats:<vendor_id>
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *StatsCache {
	if ttl <= 0 {
		ttl = statsTTL
	}
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *StatsCache) Get(ctx context.Context, vendorID string) (*domain.VendorStats, bool) {
	raw, err := c.client.Get(ctx, c.key(vendorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("vendor_id", vendorID).Msg("stats cache read failed")
		}
		return nil, false
	}

	var stats domain.VendorStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn().Err(err).Str("vendor_id", vendorID).Msg("stats cache entry corrupt")
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, vendorID string, stats *domain.VendorStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(vendorID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("vendor_id", vendorID).Msg("stats cache write failed")
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, vendorID string) {
	if err := c.client.Del(ctx, c.key(vendorID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("vendor_id", vendorID).Msg("stats cache invalidate failed")
	}
}

func (c *StatsCache) key(vendorID string) string {
	return fmt.Sprintf("vendor_stats:%s", vendorID)
}
