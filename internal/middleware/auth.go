package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// Locals keys set by RequireAuth
const (
	LocalUser   = "user"
	LocalUserID = "userID"
)

// Authenticator resolves a bearer token to an approved user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth validates the bearer token and stores the user in Locals
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apperrors.ErrUnauthorized
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		return c.Next()
	}
}

// RequireRoles rejects users outside the given roles with 403
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperrors.ErrUnauthorized
		}
		if !user.Role.In(roles...) {
			return apperrors.Forbidden(fmt.Sprintf("role %s cannot access this resource", user.Role))
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
