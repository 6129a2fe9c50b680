package models

import "time"

// Message is a direct message between two users, optionally about a load
type Message struct {
	Base
	SenderID    string     `json:"senderId" gorm:"index;not null"`
	RecipientID string     `json:"recipientId" gorm:"index;not null"`
	LoadID      string     `json:"loadId,omitempty" gorm:"index"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}

// Counterpart returns the other participant from userID's point of view
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// Conversation summarizes the thread with one counterpart
type Conversation struct {
	UserID      string  `json:"userId"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}
