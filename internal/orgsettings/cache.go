package orgsettings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/logger"
)

// WeightsReader is the narrow read interface the cache fronts.
type WeightsReader interface {
	Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error)
}

// Cache is a read-through Redis cache for weight overrides. A nil Redis
// client degrades to direct repository reads, so the service runs without
// Redis in development.
type Cache struct {
	source WeightsReader
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache creates the weights cache.
func NewCache(source WeightsReader, client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{source: source, client: client, ttl: ttl, log: log}
}

// Weights returns the overrides for one org and strategy, serving from Redis
// when possible. Cache failures fall back to the repository; they are logged,
// never surfaced.
func (c *Cache) Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error) {
	if c.client == nil {
		return c.source.Weights(ctx, organizationID, strategy)
	}

	key := cacheKey(organizationID, strategy)
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var weights matching.Weights
		if jsonErr := json.Unmarshal([]byte(raw), &weights); jsonErr == nil {
			return weights, nil
		}
		// Corrupt entry: drop it and reload from the source.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("weights cache read failed", "error", err, "org", organizationID)
	}

	weights, err := c.source.Weights(ctx, organizationID, strategy)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(weights); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.log.Warn("weights cache write failed", "error", setErr, "org", organizationID)
		}
	}
	return weights, nil
}

// Invalidate drops the cached overrides after a settings update.
func (c *Cache) Invalidate(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(organizationID, strategy)).Err(); err != nil {
		c.log.Warn("weights cache invalidation failed", "error", err, "org", organizationID)
	}
}

func cacheKey(organizationID uuid.UUID, strategy matching.Strategy) string {
	return fmt.Sprintf("orgsettings:weights:%s:%s", organizationID, strategy)
}
