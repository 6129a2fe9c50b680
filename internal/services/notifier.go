package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// Hook is one side effect run for every event
type Hook interface {
	Name() string
	Handle(ctx context.Context, e events.Event) error
}

// Notifier fans events out to hooks after the triggering write committed.
// Hook failures are logged and never reach the caller.
type Notifier struct {
	hooks   []Hook
	logger  *logrus.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewNotifier(logger *logrus.Logger, hooks ...Hook) *Notifier {
	return &Notifier{
		hooks:   hooks,
		logger:  logger,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
}

// Register adds a hook; call before serving traffic
func (n *Notifier) Register(h Hook) {
	n.hooks = append(n.hooks, h)
}

// Notify runs every hook in its own goroutine. The hook context keeps the
// request values but not its cancellation.
func (n *Notifier) Notify(ctx context.Context, e events.Event) {
	if n == nil || e.UserID == "" {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = n.now()
	}
	base := context.WithoutCancel(ctx)

	for _, h := range n.hooks {
		n.wg.Add(1)
		go func(h Hook) {
			defer n.wg.Done()
			hctx, cancel := context.WithTimeout(base, n.timeout)
			defer cancel()

			if err := h.Handle(hctx, e); err != nil {
				n.logger.WithFields(logrus.Fields{
					"hook":    h.Name(),
					"event":   e.Type,
					"user_id": e.UserID,
				}).WithError(err).Warn("notification hook failed")
			}
		}(h)
	}
}

// Wait blocks until in-flight hooks finish
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// StoreHook records an in-app notification
type StoreHook struct {
	store storage.NotificationStore
}

func NewStoreHook(store storage.NotificationStore) *StoreHook {
	return &StoreHook{store: store}
}

func (h *StoreHook) Name() string { return "store" }

func (h *StoreHook) Handle(ctx context.Context, e events.Event) error {
	return h.store.CreateNotification(ctx, &models.Notification{
		UserID: e.UserID,
		Type:   e.Type,
		Title:  e.Title,
		Body:   e.Body,
		Data:   e.Data,
	})
}

// WhatsAppHook forwards the event to the recipient's phone
type WhatsAppHook struct {
	users     storage.UserStore
	templates *TemplateService
}

func NewWhatsAppHook(users storage.UserStore, templates *TemplateService) *WhatsAppHook {
	return &WhatsAppHook{users: users, templates: templates}
}

func (h *WhatsAppHook) Name() string { return "whatsapp" }

func (h *WhatsAppHook) Handle(ctx context.Context, e events.Event) error {
	user, err := h.users.GetUser(ctx, e.UserID)
	if err != nil {
		return err
	}
	if user.Phone == "" {
		return nil
	}
	return h.templates.Send(user.Phone, e)
}
