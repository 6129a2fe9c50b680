package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

func TestMessageService_InboxAndConversation(t *testing.T) {
	f := newFixture(t)
	svc := NewMessageService(f.store, f.notifier)
	ali := f.user(t, "ali", models.RoleCarrier)
	sana := f.user(t, "sana", models.RoleShipper)
	omar := f.user(t, "omar", models.RoleBroker)

	_, err := svc.Send(f.ctx, sana, ali.ID, "", "Is the truck free tomorrow?")
	require.NoError(t, err)
	_, err = svc.Send(f.ctx, ali, sana.ID, "", "Yes")
	require.NoError(t, err)
	_, err = svc.Send(f.ctx, sana, ali.ID, "", "Great, booking now")
	require.NoError(t, err)
	_, err = svc.Send(f.ctx, omar, ali.ID, "", "Any trailer for Multan?")
	require.NoError(t, err)

	_, err = svc.Send(f.ctx, ali, ali.ID, "", "note to self")
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	_, err = svc.Send(f.ctx, ali, "missing", "", "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	unread, err := svc.UnreadCount(f.ctx, ali)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	inbox, err := svc.Inbox(f.ctx, ali)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, omar.ID, inbox[0].UserID)
	assert.Equal(t, 1, inbox[0].UnreadCount)
	assert.Equal(t, sana.ID, inbox[1].UserID)
	assert.Equal(t, 2, inbox[1].UnreadCount)
	assert.Equal(t, "Great, booking now", inbox[1].LastMessage.Body)

	thread, err := svc.Conversation(f.ctx, ali, sana.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "Is the truck free tomorrow?", thread[0].Body)
	assert.NotNil(t, thread[0].ReadAt)
	// outgoing messages stay unread for the recipient
	assert.Nil(t, thread[1].ReadAt)

	unread, err = svc.UnreadCount(f.ctx, ali)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	f.notifier.Wait()
	assert.Len(t, f.hook.byType(models.NotifyNewMessage), 4)
}
