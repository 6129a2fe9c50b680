package models

import (
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

type MarketCondition string

const (
	MarketHot    MarketCondition = "hot"
	MarketNormal MarketCondition = "normal"
	MarketCold   MarketCondition = "cold"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// LaneRate is a derived snapshot of recent pricing on a lane. The cache key
// is the canonical (OriginKey, DestinationKey, VehicleType) triple.
type LaneRate struct {
	Base
	OriginKey      string      `json:"originKey" gorm:"uniqueIndex:idx_lane_key;not null"`
	DestinationKey string      `json:"destinationKey" gorm:"uniqueIndex:idx_lane_key;not null"`
	VehicleType    VehicleType `json:"vehicleType" gorm:"uniqueIndex:idx_lane_key;type:varchar(32);not null"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`

	AvgRate         float64         `json:"avgRate"`
	AvgRatePerMile  float64         `json:"avgRatePerMile"`
	LowestRate      float64         `json:"lowestRate"`
	HighestRate     float64         `json:"highestRate"`
	AvgDistance     float64         `json:"avgDistance"`
	MarketCondition MarketCondition `json:"marketCondition" gorm:"type:varchar(8);index"`
	Trend           Trend           `json:"trend" gorm:"type:varchar(8)"`
	LoadCount       int             `json:"loadCount"`
	SampleSize      int             `json:"sampleSize"`
	LastUpdated     time.Time       `json:"lastUpdated" gorm:"index"`
}

// LaneKey identifies a lane-rate row
type LaneKey struct {
	OriginKey      string      `json:"originKey"`
	DestinationKey string      `json:"destinationKey"`
	VehicleType    VehicleType `json:"vehicleType"`
}

// IsFresh reports whether the snapshot is younger than maxAge at now
func (r *LaneRate) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.LastUpdated) < maxAge
}

// Key returns the cache key of the row
func (r *LaneRate) Key() LaneKey {
	return LaneKey{OriginKey: r.OriginKey, DestinationKey: r.DestinationKey, VehicleType: r.VehicleType}
}

// NewLaneKey canonicalizes user-supplied lane components
func NewLaneKey(origin, destination string, vehicleType VehicleType) LaneKey {
	if vehicleType.IsAny() {
		vehicleType = VehicleAny
	}
	return LaneKey{
		OriginKey:      utils.NormalizeLocation(origin),
		DestinationKey: utils.NormalizeLocation(destination),
		VehicleType:    vehicleType,
	}
}

// Reverse returns the key of the opposite direction
func (k LaneKey) Reverse() LaneKey {
	return LaneKey{OriginKey: k.DestinationKey, DestinationKey: k.OriginKey, VehicleType: k.VehicleType}
}

func (k LaneKey) String() string {
	return k.OriginKey + ":" + k.DestinationKey + ":" + string(k.VehicleType)
}
