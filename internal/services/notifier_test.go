package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/logging"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

type failingHook struct{ calls int32 }

func (h *failingHook) Name() string { return "failing" }

func (h *failingHook) Handle(ctx context.Context, e events.Event) error {
	atomic.AddInt32(&h.calls, 1)
	return errors.New("downstream unavailable")
}

type ctxHook struct{ err error }

func (h *ctxHook) Name() string { return "ctx" }

func (h *ctxHook) Handle(ctx context.Context, e events.Event) error {
	h.err = ctx.Err()
	return nil
}

type fakeSender struct {
	to   []string
	text []string
	err  error
}

func (s *fakeSender) SendWhatsAppMessage(to, message string) error {
	s.to = append(s.to, to)
	s.text = append(s.text, message)
	return s.err
}

func TestNotifier_StoreHookAndFailures(t *testing.T) {
	f := newFixture(t)
	failing := &failingHook{}
	n := NewNotifier(logging.Discard(), NewStoreHook(f.store), failing)

	n.Notify(f.ctx, events.Event{
		Type:   models.NotifyBidPlaced,
		UserID: "shipper-1",
		Title:  "New bid received",
		Data:   map[string]string{"loadId": "l1"},
	})
	n.Notify(f.ctx, events.Event{Type: models.NotifyBidPlaced, Title: "nobody"})
	n.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&failing.calls))
	list, err := f.store.ListNotifications(f.ctx, "shipper-1", false, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotifyBidPlaced, list[0].Type)
	assert.Equal(t, "l1", list[0].Data["loadId"])
}

func TestNotifier_DetachedFromRequestContext(t *testing.T) {
	hook := &ctxHook{}
	n := NewNotifier(logging.Discard(), hook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, events.Event{Type: models.NotifyNewMessage, UserID: "u1"})
	n.Wait()
	assert.NoError(t, hook.err)
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), events.Event{UserID: "u1"})
	})
}

func TestWhatsAppHook(t *testing.T) {
	f := newFixture(t)
	sender := &fakeSender{}
	hook := NewWhatsAppHook(f.store, NewTemplateService(sender))

	withPhone := f.user(t, "ali", models.RoleCarrier)
	withPhone.Phone = "+923001234567"
	require.NoError(t, f.store.UpdateUser(f.ctx, withPhone))
	noPhone := f.user(t, "sana", models.RoleCarrier)

	e := events.Event{Type: models.NotifyBidRejected, Data: map[string]string{"route": "Karachi-Lahore"}}
	e.UserID = withPhone.ID
	require.NoError(t, hook.Handle(f.ctx, e))
	e.UserID = noPhone.ID
	require.NoError(t, hook.Handle(f.ctx, e))

	require.Len(t, sender.to, 1)
	assert.Equal(t, "+923001234567", sender.to[0])
	assert.Equal(t, "Your bid on Karachi-Lahore was not selected.", sender.text[0])

	e.UserID = "missing"
	assert.Error(t, hook.Handle(f.ctx, e))
}
