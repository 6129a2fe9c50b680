package models

import (
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// GeoRadius narrows a search to postings within RadiusKm of a point
type GeoRadius struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radiusKm"`
}

// TruckFilter is the loose filter object accepted by truck search. Every
// populated field further narrows the result.
type TruckFilter struct {
	CurrentLocation string      `json:"currentLocation,omitempty"`
	Destination     string      `json:"destination,omitempty"`
	EquipmentType   VehicleType `json:"equipmentType,omitempty"`
	AvailableDate   *time.Time  `json:"availableDate,omitempty"`
	LoadType        LoadType    `json:"loadType,omitempty"`
	MinWeight       float64     `json:"minWeight,omitempty"`
	MinLength       float64     `json:"minLength,omitempty"`
	MaxAge          int         `json:"maxAge,omitempty"` // minutes
	Near            *GeoRadius  `json:"near,omitempty"`
	CreatedAfter    *time.Time  `json:"-"`
}

// Matches applies the base visibility predicate and every optional filter
// to a posting. Stores that cannot express a filter in their query language
// fall back to this.
func (f TruckFilter) Matches(p *TruckAvailability, now time.Time) bool {
	if !p.IsSearchable(now) {
		return false
	}
	if !utils.ContainsFold(p.CurrentLocation, f.CurrentLocation) {
		return false
	}
	if !utils.ContainsFold(p.Destination, f.Destination) {
		return false
	}
	if !f.EquipmentType.IsAny() && p.EquipmentType != f.EquipmentType {
		return false
	}
	if f.AvailableDate != nil && p.AvailableDate.After(*f.AvailableDate) {
		return false
	}
	if f.LoadType != "" && f.LoadType != LoadTypeAny && p.LoadType != f.LoadType && p.LoadType != LoadTypeAny {
		return false
	}
	if f.MinWeight > 0 && p.MaxWeight < f.MinWeight {
		return false
	}
	if f.MinLength > 0 && p.MaxLength < f.MinLength {
		return false
	}
	if f.MaxAge > 0 && p.CreatedAt.Before(now.Add(-time.Duration(f.MaxAge)*time.Minute)) {
		return false
	}
	if f.CreatedAfter != nil && !p.CreatedAt.After(*f.CreatedAfter) {
		return false
	}
	return f.WithinRadius(p)
}

// WithinRadius applies the Near filter alone. Postings without coordinates
// never satisfy a Near filter.
func (f TruckFilter) WithinRadius(p *TruckAvailability) bool {
	if f.Near == nil || f.Near.RadiusKm <= 0 {
		return true
	}
	if !p.HasCoordinates() {
		return false
	}
	return utils.DistanceKm(f.Near.Lat, f.Near.Lng, *p.CurrentLat, *p.CurrentLng) <= f.Near.RadiusKm
}

// LoadFilter narrows the load list
type LoadFilter struct {
	Origin       string      `json:"origin,omitempty"`
	Destination  string      `json:"destination,omitempty"`
	VehicleType  VehicleType `json:"vehicleType,omitempty"`
	Status       LoadStatus  `json:"status,omitempty"`
	ShipperID    string      `json:"shipperId,omitempty"`
	CarrierID    string      `json:"-"` // assigned carrier
	MinWeight    float64     `json:"minWeight,omitempty"`
	MaxWeight    float64     `json:"maxWeight,omitempty"`
	PickupFrom   *time.Time  `json:"pickupFrom,omitempty"`
	PickupTo     *time.Time  `json:"pickupTo,omitempty"`
	CreatedAfter *time.Time  `json:"-"`
}

func (f LoadFilter) Matches(l *Load) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.ShipperID != "" && l.ShipperID != f.ShipperID {
		return false
	}
	if f.CarrierID != "" && l.AssignedCarrierID != f.CarrierID {
		return false
	}
	if !utils.ContainsFold(l.Origin, f.Origin) || !utils.ContainsFold(l.Destination, f.Destination) {
		return false
	}
	if !f.VehicleType.IsAny() && l.RequiredVehicle != f.VehicleType {
		return false
	}
	if f.MinWeight > 0 && l.Weight < f.MinWeight {
		return false
	}
	if f.MaxWeight > 0 && l.Weight > f.MaxWeight {
		return false
	}
	if f.PickupFrom != nil && (l.PickupDate == nil || l.PickupDate.Before(*f.PickupFrom)) {
		return false
	}
	if f.PickupTo != nil && (l.PickupDate == nil || l.PickupDate.After(*f.PickupTo)) {
		return false
	}
	if f.CreatedAfter != nil && !l.CreatedAt.After(*f.CreatedAfter) {
		return false
	}
	return true
}

// LaneQuery selects loads on a lane for rate aggregation. Origin and
// destination match as case-insensitive substrings in the fixed direction.
type LaneQuery struct {
	Origin      string
	Destination string
	VehicleType VehicleType
}

func (q LaneQuery) MatchesLoad(l *Load) bool {
	if !utils.ContainsFold(l.Origin, q.Origin) || !utils.ContainsFold(l.Destination, q.Destination) {
		return false
	}
	return q.VehicleType.IsAny() || l.RequiredVehicle == q.VehicleType
}
