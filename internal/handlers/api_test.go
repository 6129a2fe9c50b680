package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/handlers"
	"github.com/Ananth-NQI/loadboard-backend/internal/logging"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/routes"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

type testAPI struct {
	app      *fiber.App
	store    *storage.MemoryStore
	auth     *services.AuthService
	notifier *services.Notifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := logging.Discard()
	store := storage.NewMemoryStore()
	notifier := services.NewNotifier(logger, services.NewStoreHook(store))
	auth := services.NewAuthService(store, config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "loadboard-test",
	})
	rates := services.NewLaneRateService(store, nil, time.Hour, logger)

	h := routes.Handlers{
		Health:        handlers.NewHealthHandler("test", store, nil),
		Auth:          handlers.NewAuthHandler(auth),
		Loads:         handlers.NewLoadHandler(services.NewLoadService(store, notifier)),
		Vehicles:      handlers.NewVehicleHandler(services.NewVehicleService(store)),
		Trucks:        handlers.NewTruckHandler(services.NewTruckService(store, notifier)),
		Rates:         handlers.NewRateHandler(rates, services.NewTriHaulService(store)),
		Admin:         handlers.NewAdminHandler(services.NewAdminService(store, notifier)),
		Analytics:     handlers.NewAnalyticsHandler(services.NewAnalyticsService(store)),
		Messages:      handlers.NewMessageHandler(services.NewMessageService(store, notifier)),
		Notifications: handlers.NewNotificationHandler(store),
		Reviews:       handlers.NewReviewHandler(services.NewReviewService(store, notifier)),
		Documents:     handlers.NewDocumentHandler(services.NewDocumentService(store, notifier)),
		Searches:      handlers.NewSearchHandler(services.NewSavedSearchService(store, notifier, logger)),
		WhatsApp:      handlers.NewWhatsAppHandler(logger),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(logger, false)})
	routes.SetupRoutes(app, h, auth, config.TwilioConfig{})

	return &testAPI{app: app, store: store, auth: auth, notifier: notifier}
}

// login creates an account with the given status and returns a bearer token
func (a *testAPI) login(t *testing.T, name string, role models.Role, status models.UserStatus) (*models.User, string) {
	t.Helper()
	u := &models.User{
		Name:   name,
		Email:  name + "@loadboard.pk",
		Role:   role,
		Status: status,
	}
	require.NoError(t, a.store.CreateUser(context.Background(), u))
	token, err := a.auth.IssueToken(u)
	require.NoError(t, err)
	return u, token
}

func (a *testAPI) approved(t *testing.T, name string, role models.Role) (*models.User, string) {
	return a.login(t, name, role, models.UserApproved)
}

// do sends a JSON request and decodes the JSON response body
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *testAPI) get(t *testing.T, path, token string) (int, map[string]interface{}) {
	return a.do(t, http.MethodGet, path, token, nil)
}
