package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// Lane-rate thresholds
const (
	RateWindow        = 7 * 24 * time.Hour
	RefreshLookback   = 30 * 24 * time.Hour
	HotLaneThreshold  = 20
	ColdLaneThreshold = 5
	TrendThresholdPct = 5.0
)

// LaneRateCache is the optional fast path in front of the lane-rate rows
type LaneRateCache interface {
	Get(ctx context.Context, key models.LaneKey) (*models.LaneRate, error)
	Set(ctx context.Context, rate *models.LaneRate) error
	Delete(ctx context.Context, key models.LaneKey) error
}

// MarketConditionFor classifies a lane by its weekly load count
func MarketConditionFor(weeklyLoads int64) models.MarketCondition {
	switch {
	case weeklyLoads > HotLaneThreshold:
		return models.MarketHot
	case weeklyLoads < ColdLaneThreshold:
		return models.MarketCold
	default:
		return models.MarketNormal
	}
}

// TrendFor compares this week's mean rate with last week's. Exactly +/-5%
// stays stable.
func TrendFor(currentAvg, previousAvg float64, hasPrevious bool) models.Trend {
	if !hasPrevious || previousAvg == 0 {
		return models.TrendStable
	}
	change := (currentAvg - previousAvg) * 100 / previousAvg
	switch {
	case change > TrendThresholdPct:
		return models.TrendUp
	case change < -TrendThresholdPct:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// RateStats are the unrounded descriptive statistics of a sample
type RateStats struct {
	Count       int
	AvgRate     float64
	LowestRate  float64
	HighestRate float64
	AvgDistance float64
}

// Summarize computes RateStats over loads with an offer price
func Summarize(loads []*models.Load) RateStats {
	var st RateStats
	var sumRate, sumDistance float64
	for _, l := range loads {
		if l.OfferPrice == nil {
			continue
		}
		p := *l.OfferPrice
		if st.Count == 0 || p < st.LowestRate {
			st.LowestRate = p
		}
		if st.Count == 0 || p > st.HighestRate {
			st.HighestRate = p
		}
		st.Count++
		sumRate += p
		sumDistance += l.Distance
	}
	if st.Count > 0 {
		st.AvgRate = sumRate / float64(st.Count)
		st.AvgDistance = sumDistance / float64(st.Count)
	}
	return st
}

// RatePerDistance is avg/distance to two decimals, 0 without a distance
func (st RateStats) RatePerDistance() float64 {
	if st.AvgDistance == 0 {
		return 0
	}
	return math.Round(st.AvgRate/st.AvgDistance*100) / 100
}

// LaneRateService computes and caches lane-rate snapshots
type LaneRateService struct {
	store      storage.Store
	cache      LaneRateCache
	staleAfter time.Duration
	logger     *logrus.Logger
	now        func() time.Time
}

func NewLaneRateService(store storage.Store, cache LaneRateCache, staleAfter time.Duration, logger *logrus.Logger) *LaneRateService {
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &LaneRateService{
		store:      store,
		cache:      cache,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// Compute aggregates the last week of delivered loads on the lane. A nil
// snapshot with a nil error means there is not enough data.
func (s *LaneRateService) Compute(ctx context.Context, origin, destination string, vehicleType models.VehicleType) (*models.LaneRate, error) {
	now := s.now()
	q := models.LaneQuery{Origin: origin, Destination: destination, VehicleType: vehicleType}

	current, err := s.store.ListDeliveredOnLane(ctx, q, now.Add(-RateWindow), now)
	if err != nil {
		return nil, err
	}
	stats := Summarize(current)
	if stats.Count == 0 {
		return nil, nil
	}

	weekly, err := s.store.CountLoadsOnLane(ctx, q, now.Add(-RateWindow))
	if err != nil {
		return nil, err
	}

	previous, err := s.store.ListDeliveredOnLane(ctx, q, now.Add(-2*RateWindow), now.Add(-RateWindow))
	if err != nil {
		return nil, err
	}
	prevStats := Summarize(previous)

	key := models.NewLaneKey(origin, destination, vehicleType)
	return &models.LaneRate{
		OriginKey:       key.OriginKey,
		DestinationKey:  key.DestinationKey,
		VehicleType:     key.VehicleType,
		Origin:          origin,
		Destination:     destination,
		AvgRate:         math.Round(stats.AvgRate),
		AvgRatePerMile:  stats.RatePerDistance(),
		LowestRate:      math.Round(stats.LowestRate),
		HighestRate:     math.Round(stats.HighestRate),
		AvgDistance:     math.Round(stats.AvgDistance),
		MarketCondition: MarketConditionFor(weekly),
		Trend:           TrendFor(stats.AvgRate, prevStats.AvgRate, prevStats.Count > 0),
		LoadCount:       int(weekly),
		SampleSize:      stats.Count,
		LastUpdated:     now,
	}, nil
}

// Get serves a fresh snapshot from cache or recomputes and stores it
func (s *LaneRateService) Get(ctx context.Context, origin, destination string, vehicleType models.VehicleType) (*models.LaneRate, error) {
	key := models.NewLaneKey(origin, destination, vehicleType)
	now := s.now()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WithError(err).WithField("lane", key.String()).Warn("lane rate cache read failed")
		} else if cached != nil && cached.IsFresh(now, s.staleAfter) {
			return cached, nil
		}
	}

	row, err := s.store.GetLaneRate(ctx, key)
	if err == nil && row.IsFresh(now, s.staleAfter) {
		s.remember(ctx, row)
		return row, nil
	}
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	return s.Refresh(ctx, origin, destination, vehicleType)
}

// Refresh always recomputes and upserts the lane. A lane with no recent
// deliveries is evicted from the cache.
func (s *LaneRateService) Refresh(ctx context.Context, origin, destination string, vehicleType models.VehicleType) (*models.LaneRate, error) {
	rate, err := s.Compute(ctx, origin, destination, vehicleType)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		s.forget(ctx, models.NewLaneKey(origin, destination, vehicleType))
		return nil, nil
	}
	if err := s.store.UpsertLaneRate(ctx, rate); err != nil {
		return nil, err
	}
	s.remember(ctx, rate)
	return rate, nil
}

func (s *LaneRateService) remember(ctx context.Context, rate *models.LaneRate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, rate); err != nil {
		s.logger.WithError(err).WithField("lane", rate.Key().String()).Warn("lane rate cache write failed")
	}
}

func (s *LaneRateService) forget(ctx context.Context, key models.LaneKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("lane", key.String()).Warn("lane rate cache evict failed")
	}
}

// RefreshAll recomputes every lane delivered on recently and returns how
// many snapshots were written
func (s *LaneRateService) RefreshAll(ctx context.Context) (int, error) {
	lanes, err := s.store.ListRecentLanes(ctx, s.now().Add(-RefreshLookback))
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, lane := range lanes {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		rate, err := s.Refresh(ctx, lane.Origin, lane.Destination, lane.VehicleType)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"origin":      lane.Origin,
				"destination": lane.Destination,
			}).Error("lane rate refresh failed")
			continue
		}
		if rate != nil {
			refreshed++
		}
	}
	return refreshed, nil
}

// Trending lists lanes updated this week, busiest first
func (s *LaneRateService) Trending(ctx context.Context, limit int) ([]*models.LaneRate, error) {
	since := s.now().Add(-RateWindow)
	return s.store.ListLaneRates(ctx, storage.LaneRateQuery{
		UpdatedSince: &since,
		OrderBy:      "load_count",
		Limit:        limit,
	})
}

// HotLanes lists lanes whose last snapshot was hot
func (s *LaneRateService) HotLanes(ctx context.Context, limit int) ([]*models.LaneRate, error) {
	return s.store.ListLaneRates(ctx, storage.LaneRateQuery{
		MarketCondition: models.MarketHot,
		OrderBy:         "load_count",
		Limit:           limit,
	})
}

// RateComparison is one vehicle type's snapshot for a lane
type RateComparison struct {
	VehicleType models.VehicleType `json:"vehicleType"`
	HasData     bool               `json:"hasData"`
	Rate        *models.LaneRate   `json:"rate,omitempty"`
}

// Compare fetches the lane snapshot for each vehicle type
func (s *LaneRateService) Compare(ctx context.Context, origin, destination string, types []models.VehicleType) ([]RateComparison, error) {
	if len(types) == 0 {
		types = models.VehicleTypes[1:]
	}
	out := make([]RateComparison, 0, len(types))
	for _, vt := range types {
		rate, err := s.Get(ctx, origin, destination, vt)
		if err != nil {
			return nil, err
		}
		out = append(out, RateComparison{VehicleType: vt, HasData: rate != nil, Rate: rate})
	}
	return out, nil
}

// laneLabel is the display form of a lane
func laneLabel(origin, destination string) string {
	return fmt.Sprintf("%s-%s", strings.TrimSpace(origin), strings.TrimSpace(destination))
}
