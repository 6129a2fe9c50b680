package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// KeyLaneRate is the redis key of a lane-rate snapshot
const KeyLaneRate = "lanerate:%s"

// LaneRateCache is a read-through front for lane-rate rows. Entries expire
// with the staleness window so a hit is always fresh.
type LaneRateCache struct {
	redis *RedisClient
	ttl   time.Duration
}

func NewLaneRateCache(client *RedisClient, ttl time.Duration) *LaneRateCache {
	return &LaneRateCache{redis: client, ttl: ttl}
}

func laneKey(key models.LaneKey) string {
	return fmt.Sprintf(KeyLaneRate, key.String())
}

// Get returns the cached row, or nil on a miss
func (c *LaneRateCache) Get(ctx context.Context, key models.LaneKey) (*models.LaneRate, error) {
	raw, err := c.redis.client.Get(ctx, laneKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lane rate: %w", err)
	}

	var rate models.LaneRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return nil, fmt.Errorf("failed to decode lane rate: %w", err)
	}
	return &rate, nil
}

func (c *LaneRateCache) Set(ctx context.Context, rate *models.LaneRate) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("failed to encode lane rate: %w", err)
	}
	if err := c.redis.client.Set(ctx, laneKey(rate.Key()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set lane rate: %w", err)
	}
	return nil
}

// Delete evicts a lane; a missing key is not an error
func (c *LaneRateCache) Delete(ctx context.Context, key models.LaneKey) error {
	if err := c.redis.client.Del(ctx, laneKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete lane rate: %w", err)
	}
	return nil
}
