package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "loadboard-test"}
}

func TestAuthService_FirstUserIsSuperAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, testJWTConfig())

	first, err := svc.Register(f.ctx, RegisterInput{Name: "Owner", Email: " Owner@LoadBoard.pk ", Password: "secret123", Role: models.RoleShipper})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, first.Role)
	assert.Equal(t, models.UserApproved, first.Status)
	assert.Equal(t, "owner@loadboard.pk", first.Email)
	assert.NotEqual(t, "secret123", first.PasswordHash)

	second, err := svc.Register(f.ctx, RegisterInput{Name: "Ali", Email: "ali@loadboard.pk", Password: "secret123", Role: models.RoleCarrier})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCarrier, second.Role)
	assert.Equal(t, models.UserPending, second.Status)

	_, err = svc.Register(f.ctx, RegisterInput{Name: "Ali", Email: "ALI@loadboard.pk", Password: "x", Role: models.RoleCarrier})
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	_, err = svc.Register(f.ctx, RegisterInput{Name: "Eve", Email: "eve@loadboard.pk", Password: "x", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Register(f.ctx, RegisterInput{Name: "Bob", Email: "bob@loadboard.pk", Password: "x", Role: "pilot"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthService_AutoApprove(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, testJWTConfig())
	f.user(t, "admin", models.RoleSuperAdmin)

	settings := models.DefaultSettings()
	settings.AutoApproveUsers = true
	require.NoError(t, f.store.SaveSettings(f.ctx, settings))

	u, err := svc.Register(f.ctx, RegisterInput{Name: "Sana", Email: "sana@loadboard.pk", Password: "pw", Role: models.RoleBroker})
	require.NoError(t, err)
	assert.Equal(t, models.UserApproved, u.Status)
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, testJWTConfig())

	_, err := svc.Register(f.ctx, RegisterInput{Name: "Owner", Email: "owner@loadboard.pk", Password: "pw1", Role: models.RoleShipper})
	require.NoError(t, err)
	pending, err := svc.Register(f.ctx, RegisterInput{Name: "Ali", Email: "ali@loadboard.pk", Password: "pw2", Role: models.RoleCarrier})
	require.NoError(t, err)

	_, _, err = svc.Login(f.ctx, "ali@loadboard.pk", "pw2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, err = svc.Login(f.ctx, "owner@loadboard.pk", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, err = svc.Login(f.ctx, "nobody@loadboard.pk", "pw1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	pending.Status = models.UserApproved
	require.NoError(t, f.store.UpdateUser(f.ctx, pending))

	token, user, err := svc.Login(f.ctx, "ALI@loadboard.pk", "pw2")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, claims.UserID)
	assert.Equal(t, models.RoleCarrier, claims.Role)
	assert.Equal(t, "loadboard-test", claims.Issuer)

	authed, err := svc.Authenticate(f.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, authed.ID)

	pending.Status = models.UserSuspended
	require.NoError(t, f.store.UpdateUser(f.ctx, pending))
	_, err = svc.Authenticate(f.ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "carrier", models.RoleCarrier)

	issuer := NewAuthService(f.store, testJWTConfig())
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.IssueToken(user)
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "another-secret"
	forged, err := NewAuthService(f.store, other).IssueToken(user)
	require.NoError(t, err)

	wrongIssuer := testJWTConfig()
	wrongIssuer.Issuer = "someone-else"
	foreign, err := NewAuthService(f.store, wrongIssuer).IssueToken(user)
	require.NoError(t, err)

	svc := NewAuthService(f.store, testJWTConfig())
	for name, token := range map[string]string{
		"expired":      expired,
		"bad secret":   forged,
		"wrong issuer": foreign,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}
