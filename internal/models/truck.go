package models

import (
	"time"
)

// TruckStatus is the single availability state of a posting
type TruckStatus string

const (
	TruckAvailable TruckStatus = "Available"
	TruckInTransit TruckStatus = "In-Transit"
	TruckBooked    TruckStatus = "Booked"
	TruckExpired   TruckStatus = "Expired"
)

func (s TruckStatus) Valid() bool {
	switch s {
	case TruckAvailable, TruckInTransit, TruckBooked, TruckExpired:
		return true
	}
	return false
}

// DefaultPostingTTL applies when settings carry no posting lifetime
const DefaultPostingTTL = 7 * 24 * time.Hour

// TruckAvailability is a carrier's posting that a truck is free for loads
type TruckAvailability struct {
	Base
	CarrierID string `json:"carrierId" gorm:"index;not null"`
	VehicleID string `json:"vehicleId" gorm:"index"`

	CurrentLocation string   `json:"currentLocation" gorm:"index"`
	Destination     string   `json:"destination,omitempty"`
	CurrentLat      *float64 `json:"currentLat,omitempty"`
	CurrentLng      *float64 `json:"currentLng,omitempty"`
	Geohash         string   `json:"geohash,omitempty" gorm:"index;type:varchar(12)"`

	AvailableDate         time.Time `json:"availableDate"`
	DeadheadOriginKm      float64   `json:"deadheadOriginKm"`
	DeadheadDestinationKm float64   `json:"deadheadDestinationKm"`

	EquipmentType VehicleType `json:"equipmentType" gorm:"type:varchar(32);index"`
	LoadType      LoadType    `json:"loadType" gorm:"type:varchar(16);default:Any"`
	MaxLength     float64     `json:"maxLength"`
	MaxWeight     float64     `json:"maxWeight"`
	Notes         string      `json:"notes,omitempty"`

	Status       TruckStatus `json:"status" gorm:"type:varchar(16);index;default:Available"`
	BookedBy     string      `json:"bookedBy,omitempty"`
	BookedLoadID string      `json:"bookedLoadId,omitempty"`
	BookedAt     *time.Time  `json:"bookedAt,omitempty"`
	ExpiresAt    time.Time   `json:"expiresAt" gorm:"index"`
}

// IsAvailable is derived from the single status field
func (t *TruckAvailability) IsAvailable() bool {
	return t.Status == TruckAvailable
}

// IsSearchable reports whether the posting is visible to search at now
func (t *TruckAvailability) IsSearchable(now time.Time) bool {
	return t.IsAvailable() && t.ExpiresAt.After(now)
}

// HasCoordinates reports whether a lat/lng pair was posted
func (t *TruckAvailability) HasCoordinates() bool {
	return t.CurrentLat != nil && t.CurrentLng != nil
}
