package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

func TestAdminService_SetUserStatus(t *testing.T) {
	f := newFixture(t)
	svc := NewAdminService(f.store, f.notifier)
	root := f.user(t, "root", models.RoleSuperAdmin)
	admin := f.user(t, "admin", models.RoleAdmin)
	carrier := f.user(t, "carrier", models.RoleCarrier)
	carrier.Status = models.UserPending
	require.NoError(t, f.store.UpdateUser(f.ctx, carrier))

	pending, err := svc.ListUsers(f.ctx, storage.UserFilter{Status: models.UserPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, carrier.ID, pending[0].ID)

	_, err = svc.ListUsers(f.ctx, storage.UserFilter{Role: "pilot"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := svc.SetUserStatus(f.ctx, admin, carrier.ID, models.UserApproved, "documents checked")
	require.NoError(t, err)
	assert.Equal(t, models.UserApproved, got.Status)
	assert.Equal(t, "documents checked", got.StatusReason)

	_, err = svc.SetUserStatus(f.ctx, admin, root.ID, models.UserSuspended, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.SetUserStatus(f.ctx, admin, admin.ID, models.UserSuspended, "")
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)

	_, err = svc.SetUserStatus(f.ctx, root, admin.ID, "banned", "")
	assert.ErrorAs(t, err, &verr)

	f.notifier.Wait()
	notes := f.hook.byType(models.NotifyAccountStatus)
	require.Len(t, notes, 1)
	assert.Equal(t, "approved", notes[0].Data["status"])
}

func TestAdminService_UpdateSettings(t *testing.T) {
	f := newFixture(t)
	svc := NewAdminService(f.store, f.notifier)
	admin := f.user(t, "admin", models.RoleAdmin)

	defaults, err := svc.Settings(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, defaults.DefaultPostingDays)

	days := 3
	auto := true
	got, err := svc.UpdateSettings(f.ctx, admin, SettingsInput{DefaultPostingDays: &days, AutoApproveUsers: &auto})
	require.NoError(t, err)
	assert.Equal(t, 3, got.DefaultPostingDays)
	assert.Equal(t, admin.ID, got.UpdatedBy)
	assert.Equal(t, "Load Board", got.PlatformName)

	rate := 1.5
	_, err = svc.UpdateSettings(f.ctx, admin, SettingsInput{CommissionRate: &rate})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	saved, err := f.store.GetSettings(f.ctx)
	require.NoError(t, err)
	assert.True(t, saved.AutoApproveUsers)
	assert.Equal(t, 0.05, saved.CommissionRate)
}
