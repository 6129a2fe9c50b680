package services

import (
	"context"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// MessageService handles direct messages between users
type MessageService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time
}

func NewMessageService(store storage.Store, notifier *Notifier) *MessageService {
	return &MessageService{store: store, notifier: notifier, now: time.Now}
}

func (s *MessageService) Send(ctx context.Context, sender *models.User, recipientID, loadID, body string) (*models.Message, error) {
	if recipientID == sender.ID {
		return nil, apperrors.Domain("you cannot message yourself")
	}
	if _, err := s.store.GetUser(ctx, recipientID); err != nil {
		return nil, err
	}
	if loadID != "" {
		if _, err := s.store.GetLoad(ctx, loadID); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipientID,
		LoadID:      loadID,
		Body:        body,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:    models.NotifyNewMessage,
		UserID:  recipientID,
		ActorID: sender.ID,
		Title:   "New message from " + sender.Name,
		Body:    body,
		Data:    map[string]string{"messageId": msg.ID, "senderId": sender.ID},
	})
	return msg, nil
}

// Inbox summarizes one conversation per counterpart, most recent first
func (s *MessageService) Inbox(ctx context.Context, user *models.User) ([]models.Conversation, error) {
	msgs, err := s.store.ListMessagesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	conversations := []models.Conversation{}
	for _, m := range msgs {
		other := m.Counterpart(user.ID)
		i, ok := index[other]
		if !ok {
			i = len(conversations)
			index[other] = i
			conversations = append(conversations, models.Conversation{UserID: other, LastMessage: *m})
		}
		if m.RecipientID == user.ID && m.ReadAt == nil {
			conversations[i].UnreadCount++
		}
	}
	return conversations, nil
}

// Conversation returns the thread with other and marks incoming messages read
func (s *MessageService) Conversation(ctx context.Context, user *models.User, otherID string) ([]*models.Message, error) {
	if _, err := s.store.GetUser(ctx, otherID); err != nil {
		return nil, err
	}
	if _, err := s.store.MarkConversationRead(ctx, user.ID, otherID, s.now()); err != nil {
		return nil, err
	}
	return s.store.ListConversation(ctx, user.ID, otherID)
}

func (s *MessageService) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	return s.store.CountUnreadMessages(ctx, user.ID)
}
