package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// AnalyticsWindow is the lookback of lane analytics
const AnalyticsWindow = 30 * 24 * time.Hour

// Overview is the admin dashboard summary
type Overview struct {
	UsersByRole    map[models.Role]int64       `json:"usersByRole"`
	LoadsByStatus  map[models.LoadStatus]int64 `json:"loadsByStatus"`
	ActivePostings int64                       `json:"activePostings"`
	OpenBids       int64                       `json:"openBids"`
	TotalUsers     int64                       `json:"totalUsers"`
}

// LaneAnalytics contains lane performance over the analytics window
type LaneAnalytics struct {
	Route           string  `json:"route"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	AveragePrice    float64 `json:"averagePrice"`
	LoadFrequency   int     `json:"loadFrequency"`
	AverageDistance float64 `json:"averageDistance"`
	Profitability   float64 `json:"profitabilityScore"`
}

// CarrierPerformance summarizes a carrier's bidding and delivery record
type CarrierPerformance struct {
	CarrierID      string  `json:"carrierId"`
	TotalBids      int     `json:"totalBids"`
	AcceptedBids   int     `json:"acceptedBids"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	ActiveLoads    int     `json:"activeLoads"`
	DeliveredLoads int     `json:"deliveredLoads"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`
}

type AnalyticsService struct {
	store storage.Store
	now   func() time.Time
}

func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now}
}

func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	byRole, err := s.store.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.store.CountLoadsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	postings, err := s.store.CountActivePostings(ctx, s.now())
	if err != nil {
		return nil, err
	}
	bids, err := s.store.CountPendingBids(ctx)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		UsersByRole:    byRole,
		LoadsByStatus:  byStatus,
		ActivePostings: postings,
		OpenBids:       bids,
	}
	for _, n := range byRole {
		o.TotalUsers += n
	}
	return o, nil
}

// TopLanes groups loads delivered in the analytics window by normalized lane
// and ranks them by profitability score
func (s *AnalyticsService) TopLanes(ctx context.Context, limit int) ([]LaneAnalytics, error) {
	loads, err := s.store.ListDeliveredSince(ctx, s.now().Add(-AnalyticsWindow))
	if err != nil {
		return nil, err
	}

	type acc struct {
		lane      LaneAnalytics
		priced    int
		priceSum  float64
		distCount int
		distSum   float64
	}
	lanes := make(map[string]*acc)
	for _, load := range loads {
		key := utils.NormalizeLocation(load.Origin) + ":" + utils.NormalizeLocation(load.Destination)
		a, ok := lanes[key]
		if !ok {
			a = &acc{lane: LaneAnalytics{
				Route:       laneLabel(load.Origin, load.Destination),
				Origin:      load.Origin,
				Destination: load.Destination,
			}}
			lanes[key] = a
		}
		a.lane.LoadFrequency++
		if load.OfferPrice != nil {
			a.priced++
			a.priceSum += *load.OfferPrice
		}
		if load.Distance > 0 {
			a.distCount++
			a.distSum += load.Distance
		}
	}

	out := make([]LaneAnalytics, 0, len(lanes))
	for _, a := range lanes {
		if a.priced > 0 {
			a.lane.AveragePrice = math.Round(a.priceSum / float64(a.priced))
		}
		if a.distCount > 0 {
			a.lane.AverageDistance = math.Round(a.distSum / float64(a.distCount))
		}
		// price weighted by frequency, in thousands
		a.lane.Profitability = math.Round(a.lane.AveragePrice*float64(a.lane.LoadFrequency)/10) / 100
		out = append(out, a.lane)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Profitability != out[j].Profitability {
			return out[i].Profitability > out[j].Profitability
		}
		return out[i].Route < out[j].Route
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *AnalyticsService) CarrierPerformance(ctx context.Context, carrierID string) (*CarrierPerformance, error) {
	carrier, err := s.store.GetUser(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	bids, err := s.store.ListBidsByCarrier(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	loads, err := s.store.ListLoads(ctx, models.LoadFilter{CarrierID: carrierID}, 0)
	if err != nil {
		return nil, err
	}

	p := &CarrierPerformance{
		CarrierID:   carrierID,
		TotalBids:   len(bids),
		Rating:      carrier.Rating,
		ReviewCount: carrier.ReviewCount,
	}
	for _, b := range bids {
		if b.Status == models.BidAccepted {
			p.AcceptedBids++
		}
	}
	if p.TotalBids > 0 {
		p.AcceptanceRate = math.Round(float64(p.AcceptedBids)*10000/float64(p.TotalBids)) / 100
	}
	for _, l := range loads {
		switch l.Status {
		case models.LoadDelivered:
			p.DeliveredLoads++
		case models.LoadAssigned, models.LoadInTransit:
			p.ActiveLoads++
		}
	}
	return p, nil
}
