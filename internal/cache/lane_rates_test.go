package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// setupMiniredis creates a new miniredis server and a cache connected to it
func setupMiniredis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *LaneRateCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewLaneRateCache(WrapClient(client), ttl)
}

func TestLaneRateCache_SetGet(t *testing.T) {
	mr, c := setupMiniredis(t, time.Hour)
	defer mr.Close()
	ctx := context.Background()

	key := models.NewLaneKey("Karachi", "Lahore", models.VehicleTrailer)
	rate := &models.LaneRate{
		OriginKey: key.OriginKey, DestinationKey: key.DestinationKey, VehicleType: key.VehicleType,
		AvgRate: 60000, MarketCondition: models.MarketCold, Trend: models.TrendStable,
	}
	require.NoError(t, c.Set(ctx, rate))

	assert.True(t, mr.Exists("lanerate:karachi:lahore:Trailer"))
	assert.Equal(t, time.Hour, mr.TTL("lanerate:karachi:lahore:Trailer"))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 60000.0, got.AvgRate)
	assert.Equal(t, models.MarketCold, got.MarketCondition)
}

func TestLaneRateCache_MissAndExpiry(t *testing.T) {
	mr, c := setupMiniredis(t, time.Minute)
	defer mr.Close()
	ctx := context.Background()

	key := models.NewLaneKey("Lahore", "Multan", models.VehicleAny)
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, &models.LaneRate{OriginKey: key.OriginKey, DestinationKey: key.DestinationKey, VehicleType: key.VehicleType}))
	mr.FastForward(2 * time.Minute)

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLaneRateCache_Delete(t *testing.T) {
	mr, c := setupMiniredis(t, time.Hour)
	defer mr.Close()
	ctx := context.Background()

	key := models.NewLaneKey("Karachi", "Quetta", models.VehicleMazda)
	require.NoError(t, c.Set(ctx, &models.LaneRate{OriginKey: key.OriginKey, DestinationKey: key.DestinationKey, VehicleType: key.VehicleType}))
	require.True(t, mr.Exists("lanerate:karachi:quetta:Mazda"))

	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, mr.Exists("lanerate:karachi:quetta:Mazda"))

	// deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, key))
}

func TestLaneRateCache_RedisError(t *testing.T) {
	mr, c := setupMiniredis(t, time.Minute)
	mr.Close()

	_, err := c.Get(context.Background(), models.NewLaneKey("a", "b", ""))
	assert.Error(t, err)
}
