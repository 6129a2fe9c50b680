package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

type fakeAuthenticator map[string]*models.User

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	u, ok := f[token]
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return u, nil
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken(""))
}

func TestRequireAuthAndRoles(t *testing.T) {
	auth := fakeAuthenticator{
		"carrier": {Base: models.Base{ID: "c1"}, Role: models.RoleCarrier},
		"admin":   {Base: models.Base{ID: "a1"}, Role: models.RoleAdmin},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.Status(err))
		},
	})
	app.Get("/admin", RequireAuth(auth), RequireRoles(models.AdminRoles...), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).ID + ":" + c.Locals(LocalUserID).(string))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer carrier", status: http.StatusForbidden},
		{name: "admin", header: "Bearer admin", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
