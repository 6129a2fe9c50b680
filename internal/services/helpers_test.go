package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/logging"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// recordingHook captures every event it receives
type recordingHook struct {
	mu     sync.Mutex
	events []events.Event
}

func (h *recordingHook) Name() string { return "recorder" }

func (h *recordingHook) Handle(ctx context.Context, e events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return nil
}

func (h *recordingHook) byType(t models.NotificationType) []events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []events.Event
	for _, e := range h.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx      context.Context
	store    *storage.MemoryStore
	notifier *Notifier
	hook     *recordingHook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hook := &recordingHook{}
	return &fixture{
		ctx:      context.Background(),
		store:    storage.NewMemoryStore(),
		notifier: NewNotifier(logging.Discard(), hook),
		hook:     hook,
	}
}

func (f *fixture) user(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        name + "@loadboard.pk",
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserApproved,
	}
	require.NoError(t, f.store.CreateUser(f.ctx, u))
	return u
}

func price(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }
