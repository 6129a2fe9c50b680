package storage

import (
	"context"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// UserFilter narrows the admin user list
type UserFilter struct {
	Role   models.Role
	Status models.UserStatus
}

// LaneRateQuery selects cached lane-rate rows
type LaneRateQuery struct {
	OriginKey       string
	VehicleType     models.VehicleType // empty or Any means every vehicle type
	MinAvgRate      float64            // strict lower bound when > 0
	MarketCondition models.MarketCondition
	UpdatedSince    *time.Time
	OrderBy         string // "avg_rate" or "load_count", descending
	Limit           int
}

// UserStore persists accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	CountUsers(ctx context.Context) (int64, error)
}

// VehicleStore persists carrier vehicles
type VehicleStore interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	ListVehiclesByOwner(ctx context.Context, ownerID string) ([]*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// LoadStore persists loads, their bids and tracking logs. Mutations that
// change load status are compare-and-swap on Load.Version and return
// apperrors.ErrConflict when the version moved.
type LoadStore interface {
	CreateLoad(ctx context.Context, load *models.Load) error
	GetLoad(ctx context.Context, id string) (*models.Load, error)
	ListLoads(ctx context.Context, filter models.LoadFilter, limit int) ([]*models.Load, error)

	AddBid(ctx context.Context, bid *models.Bid) error
	ListBidsByCarrier(ctx context.Context, carrierID string) ([]*models.Bid, error)
	// RejectBid moves a pending bid to Rejected
	RejectBid(ctx context.Context, loadID, bidID string) error
	// AssignLoad accepts bidID and moves the load Open -> Assigned
	AssignLoad(ctx context.Context, loadID string, version int, bidID, carrierID string) error
	// AdvanceLoad sets the load status, appends the tracking entry and, for
	// deliveries, records deliveredAt
	AdvanceLoad(ctx context.Context, loadID string, version int, update *models.TrackingUpdate, deliveredAt *time.Time) error
	ListTrackingUpdates(ctx context.Context, loadID string) ([]*models.TrackingUpdate, error)

	// ListDeliveredOnLane returns delivered loads with an offer price whose
	// delivery date falls in (from, to]
	ListDeliveredOnLane(ctx context.Context, q models.LaneQuery, from, to time.Time) ([]*models.Load, error)
	// CountLoadsOnLane counts loads of any status created on the lane since
	CountLoadsOnLane(ctx context.Context, q models.LaneQuery, since time.Time) (int64, error)
	// ListRecentLanes returns the distinct lanes of loads delivered since
	ListRecentLanes(ctx context.Context, since time.Time) ([]models.LaneQuery, error)
}

// TruckStore persists truck availability postings
type TruckStore interface {
	CreatePosting(ctx context.Context, posting *models.TruckAvailability) error
	GetPosting(ctx context.Context, id string) (*models.TruckAvailability, error)
	UpdatePosting(ctx context.Context, posting *models.TruckAvailability) error
	DeletePosting(ctx context.Context, id string) error
	// ListPostingsByCarrier is the owner view: no availability predicate
	ListPostingsByCarrier(ctx context.Context, carrierID string) ([]*models.TruckAvailability, error)
	// SearchTrucks returns searchable postings matching filter, newest first
	SearchTrucks(ctx context.Context, filter models.TruckFilter, now time.Time, limit int) ([]*models.TruckAvailability, error)
	// BookPosting books an available, unexpired posting or returns ErrConflict
	BookPosting(ctx context.Context, id, bookedBy, loadID string, now time.Time) error
	// ExpirePostings flips Available postings past their expiry to Expired
	ExpirePostings(ctx context.Context, now time.Time) (int64, error)
}

// LaneRateStore persists the derived lane-rate cache rows
type LaneRateStore interface {
	GetLaneRate(ctx context.Context, key models.LaneKey) (*models.LaneRate, error)
	UpsertLaneRate(ctx context.Context, rate *models.LaneRate) error
	ListLaneRates(ctx context.Context, q LaneRateQuery) ([]*models.LaneRate, error)
}

type ReviewStore interface {
	// CreateReview returns ErrConflict when the reviewer already reviewed the load
	CreateReview(ctx context.Context, review *models.Review) error
	HasReview(ctx context.Context, loadID, reviewerID string) (bool, error)
	ListReviewsForUser(ctx context.Context, revieweeID string) ([]*models.Review, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	// ListConversation returns the thread between a and b, oldest first
	ListConversation(ctx context.Context, a, b string) ([]*models.Message, error)
	// ListMessagesForUser returns every message sent or received, newest first
	ListMessagesForUser(ctx context.Context, userID string) ([]*models.Message, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID string, now time.Time) (int64, error)
	CountUnreadMessages(ctx context.Context, recipientID string) (int64, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string, now time.Time) error
	MarkAllNotificationsRead(ctx context.Context, userID string, now time.Time) (int64, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
}

type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
	ListDocumentsByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
}

type SettingsStore interface {
	// GetSettings returns the saved row or the defaults
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error
}

type SavedSearchStore interface {
	CreateSavedSearch(ctx context.Context, s *models.SavedSearch) error
	GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error)
	ListSavedSearches(ctx context.Context, userID string) ([]*models.SavedSearch, error)
	ListAlarmedSearches(ctx context.Context) ([]*models.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, s *models.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error
}

// StatsStore serves aggregate counts for analytics
type StatsStore interface {
	CountUsersByRole(ctx context.Context) (map[models.Role]int64, error)
	CountLoadsByStatus(ctx context.Context) (map[models.LoadStatus]int64, error)
	CountActivePostings(ctx context.Context, now time.Time) (int64, error)
	CountPendingBids(ctx context.Context) (int64, error)
	// ListDeliveredSince returns every load delivered after since
	ListDeliveredSince(ctx context.Context, since time.Time) ([]*models.Load, error)
}

// Store defines the interface for storage operations
type Store interface {
	UserStore
	VehicleStore
	LoadStore
	TruckStore
	LaneRateStore
	ReviewStore
	MessageStore
	NotificationStore
	DocumentStore
	SettingsStore
	SavedSearchStore
	StatsStore

	Ping(ctx context.Context) error
}
