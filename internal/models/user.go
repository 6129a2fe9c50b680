package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCarrier       Role = "carrier"
	RoleShipper       Role = "shipper"
	RoleAdmin         Role = "admin"
	RoleSuperAdmin    Role = "super_admin"
	RoleBroker        Role = "broker"
	RoleFleetOwner    Role = "fleet_owner"
	RoleOwnerOperator Role = "owner_operator"
)

// Role groups used by route guards
var (
	CarrierRoles = []Role{RoleCarrier, RoleFleetOwner, RoleOwnerOperator}
	ShipperRoles = []Role{RoleShipper, RoleBroker}
	AdminRoles   = []Role{RoleAdmin, RoleSuperAdmin}
)

func (r Role) Valid() bool {
	switch r {
	case RoleCarrier, RoleShipper, RoleAdmin, RoleSuperAdmin, RoleBroker, RoleFleetOwner, RoleOwnerOperator:
		return true
	}
	return false
}

func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

func (r Role) IsCarrier() bool { return r.In(CarrierRoles...) }
func (r Role) IsShipper() bool { return r.In(ShipperRoles...) }
func (r Role) IsAdmin() bool   { return r.In(AdminRoles...) }

type UserStatus string

const (
	UserPending   UserStatus = "pending"
	UserApproved  UserStatus = "approved"
	UserRejected  UserStatus = "rejected"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserApproved, UserRejected, UserSuspended:
		return true
	}
	return false
}

// User is any account on the marketplace
type User struct {
	Base
	Name         string     `json:"name"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Company      string     `json:"company,omitempty"`
	Role         Role       `json:"role" gorm:"type:varchar(32);index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(16);index;default:pending"`
	StatusReason string     `json:"statusReason,omitempty"`

	// Trust metrics
	CreditScore      int     `json:"creditScore"`
	DaysToPayAverage float64 `json:"daysToPayAverage"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"reviewCount"`

	SubscriptionTier      string     `json:"subscriptionTier,omitempty"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ApplyRating folds a new review score into the running average
func (u *User) ApplyRating(rating float64) {
	u.ReviewCount++
	if u.ReviewCount == 1 {
		u.Rating = rating
		return
	}
	u.Rating = ((u.Rating * float64(u.ReviewCount-1)) + rating) / float64(u.ReviewCount)
}

// CanLogin reports whether the account status allows authentication
func (u *User) CanLogin() bool {
	return u.Status == UserApproved
}
