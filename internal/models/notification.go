package models

import (
	"time"
)

type NotificationType string

const (
	NotifyBidPlaced        NotificationType = "bid_placed"
	NotifyBidAccepted      NotificationType = "bid_accepted"
	NotifyBidRejected      NotificationType = "bid_rejected"
	NotifyLoadStatus       NotificationType = "load_status"
	NotifyTruckBooked      NotificationType = "truck_booked"
	NotifyDocumentVerified NotificationType = "document_verified"
	NotifyDocumentRejected NotificationType = "document_rejected"
	NotifyAccountStatus    NotificationType = "account_status"
	NotifyNewMessage       NotificationType = "new_message"
	NotifyReviewReceived   NotificationType = "review_received"
	NotifySearchAlarm      NotificationType = "search_alarm"
)

// Notification is an in-app notice for a user
type Notification struct {
	Base
	UserID string            `json:"userId" gorm:"index;not null"`
	Type   NotificationType  `json:"type" gorm:"type:varchar(32)"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty" gorm:"serializer:json"`
	ReadAt *time.Time        `json:"readAt,omitempty"`
}
