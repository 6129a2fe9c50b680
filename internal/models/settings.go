package models

import "time"

// SettingsID is the primary key of the singleton settings row
const SettingsID = "global"

// Settings is the platform-wide configuration editable by admins
type Settings struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlatformName       string    `json:"platformName"`
	CommissionRate     float64   `json:"commissionRate"`
	DefaultPostingDays int       `json:"defaultPostingDays"`
	AutoApproveUsers   bool      `json:"autoApproveUsers"`
	MaintenanceMode    bool      `json:"maintenanceMode"`
	SupportEmail       string    `json:"supportEmail,omitempty"`
	SupportPhone       string    `json:"supportPhone,omitempty"`
	UpdatedBy          string    `json:"updatedBy,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// DefaultSettings is served until an admin saves the first settings row
func DefaultSettings() *Settings {
	return &Settings{
		ID:                 SettingsID,
		PlatformName:       "Load Board",
		CommissionRate:     0.05,
		DefaultPostingDays: 7,
	}
}

// PostingTTL returns how long a new truck posting stays live
func (s *Settings) PostingTTL() time.Duration {
	if s == nil || s.DefaultPostingDays <= 0 {
		return DefaultPostingTTL
	}
	return time.Duration(s.DefaultPostingDays) * 24 * time.Hour
}
