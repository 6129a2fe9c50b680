package services

import (
	"context"
	"math"
	"sort"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// Tri-haul search bounds
const (
	TriHaulCandidates   = 5
	TriHaulMinLegRate   = 50000
	triHaulNoDirectGain = 100
)

type TriHaulLeg struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Rate        float64 `json:"rate"`
}

type RoundTrip struct {
	Outbound float64 `json:"outbound"`
	Return   float64 `json:"return"`
	Total    float64 `json:"total"`
}

type TriHaulSuggestion struct {
	Hub                string       `json:"hub"`
	Legs               []TriHaulLeg `json:"legs"`
	TriHaulTotal       float64      `json:"triHaulTotal"`
	ProfitIncrease     float64      `json:"profitIncrease"`
	IncreasePercentage float64      `json:"increasePercentage"`
}

type TriHaulResult struct {
	Origin          string              `json:"origin"`
	Destination     string              `json:"destination"`
	VehicleType     models.VehicleType  `json:"vehicleType"`
	DirectRoundTrip RoundTrip           `json:"directRoundTrip"`
	Suggestions     []TriHaulSuggestion `json:"suggestions"`
}

// TriHaulService proposes a third leg over already cached lane rates. It
// never computes a missing lane.
type TriHaulService struct {
	store storage.LaneRateStore
}

func NewTriHaulService(store storage.LaneRateStore) *TriHaulService {
	return &TriHaulService{store: store}
}

func (s *TriHaulService) cachedRate(ctx context.Context, key models.LaneKey) (*models.LaneRate, error) {
	rate, err := s.store.GetLaneRate(ctx, key)
	if isNotFound(err) {
		return nil, nil
	}
	return rate, err
}

// Suggest evaluates origin -> destination -> hub -> origin against the
// direct round trip
func (s *TriHaulService) Suggest(ctx context.Context, origin, destination string, vehicleType models.VehicleType) (*TriHaulResult, error) {
	key := models.NewLaneKey(origin, destination, vehicleType)
	result := &TriHaulResult{
		Origin:      origin,
		Destination: destination,
		VehicleType: key.VehicleType,
		Suggestions: []TriHaulSuggestion{},
	}

	outbound, err := s.cachedRate(ctx, key)
	if err != nil {
		return nil, err
	}
	back, err := s.cachedRate(ctx, key.Reverse())
	if err != nil {
		return nil, err
	}
	if outbound != nil && back != nil {
		result.DirectRoundTrip = RoundTrip{
			Outbound: outbound.AvgRate,
			Return:   back.AvgRate,
			Total:    outbound.AvgRate + back.AvgRate,
		}
	} else if outbound != nil {
		result.DirectRoundTrip.Outbound = outbound.AvgRate
	}
	if outbound == nil {
		return result, nil
	}

	candidates, err := s.store.ListLaneRates(ctx, storage.LaneRateQuery{
		OriginKey:   key.DestinationKey,
		VehicleType: vehicleType,
		MinAvgRate:  TriHaulMinLegRate,
		OrderBy:     "avg_rate",
		Limit:       TriHaulCandidates,
	})
	if err != nil {
		return nil, err
	}

	direct := result.DirectRoundTrip.Total
	for _, hubLeg := range candidates {
		hub := hubLeg.DestinationKey
		if hub == key.OriginKey || hub == key.DestinationKey {
			continue
		}
		closing, err := s.cachedRate(ctx, models.LaneKey{OriginKey: hub, DestinationKey: key.OriginKey, VehicleType: hubLeg.VehicleType})
		if err != nil {
			return nil, err
		}
		if closing == nil {
			continue
		}

		total := outbound.AvgRate + hubLeg.AvgRate + closing.AvgRate
		profit := total - direct
		if profit <= 0 {
			continue
		}
		pct := float64(triHaulNoDirectGain)
		if direct != 0 {
			pct = math.Round(profit / direct * 100)
		}

		hubName := hubLeg.Destination
		if hubName == "" {
			hubName = hub
		}
		result.Suggestions = append(result.Suggestions, TriHaulSuggestion{
			Hub: hubName,
			Legs: []TriHaulLeg{
				{Origin: origin, Destination: destination, Rate: outbound.AvgRate},
				{Origin: destination, Destination: hubName, Rate: hubLeg.AvgRate},
				{Origin: hubName, Destination: origin, Rate: closing.AvgRate},
			},
			TriHaulTotal:       total,
			ProfitIncrease:     profit,
			IncreasePercentage: pct,
		})
	}

	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].ProfitIncrease > result.Suggestions[j].ProfitIncrease
	})
	return result, nil
}
