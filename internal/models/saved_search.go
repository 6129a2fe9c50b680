package models

import "time"

type SearchKind string

const (
	SearchLoads  SearchKind = "loads"
	SearchTrucks SearchKind = "trucks"
)

// SavedSearch is a stored filter a user can re-run or subscribe to
type SavedSearch struct {
	Base
	UserID          string       `json:"userId" gorm:"index;not null"`
	Name            string       `json:"name"`
	Kind            SearchKind   `json:"kind" gorm:"type:varchar(8)"`
	TruckFilter     *TruckFilter `json:"truckFilter,omitempty" gorm:"serializer:json"`
	LoadFilter      *LoadFilter  `json:"loadFilter,omitempty" gorm:"serializer:json"`
	AlarmEnabled    bool         `json:"alarmEnabled" gorm:"index"`
	LastRunAt       *time.Time   `json:"lastRunAt,omitempty"`
	LastResultCount int          `json:"lastResultCount"`
}
