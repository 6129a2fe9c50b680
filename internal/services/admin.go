package services

import (
	"context"
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// SettingsInput carries a partial settings update
type SettingsInput struct {
	PlatformName       *string
	CommissionRate     *float64
	DefaultPostingDays *int
	AutoApproveUsers   *bool
	MaintenanceMode    *bool
	SupportEmail       *string
	SupportPhone       *string
}

// AdminService covers account moderation and platform settings
type AdminService struct {
	store    storage.Store
	notifier *Notifier
	now      func() time.Time
}

func NewAdminService(store storage.Store, notifier *Notifier) *AdminService {
	return &AdminService{store: store, notifier: notifier, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context, filter storage.UserFilter) ([]*models.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.Invalid("role", "unknown role")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Invalid("status", "unknown status")
	}
	return s.store.ListUsers(ctx, filter)
}

// SetUserStatus approves, rejects or suspends an account
func (s *AdminService) SetUserStatus(ctx context.Context, admin *models.User, userID string, status models.UserStatus, reason string) (*models.User, error) {
	if !status.Valid() {
		return nil, apperrors.Invalid("status", "unknown status")
	}
	if userID == admin.ID {
		return nil, apperrors.Domain("you cannot change your own status")
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleSuperAdmin && admin.Role != models.RoleSuperAdmin {
		return nil, apperrors.Forbidden("only a super admin can moderate a super admin")
	}

	user.Status = status
	user.StatusReason = reason
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events.Event{
		Type:    models.NotifyAccountStatus,
		UserID:  user.ID,
		ActorID: admin.ID,
		Title:   "Account " + string(status),
		Body:    reason,
		Data:    map[string]string{"status": string(status), "reason": reason},
	})
	return user, nil
}

func (s *AdminService) Settings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetSettings(ctx)
}

func (s *AdminService) UpdateSettings(ctx context.Context, admin *models.User, in SettingsInput) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if in.PlatformName != nil {
		settings.PlatformName = *in.PlatformName
	}
	if in.CommissionRate != nil {
		if *in.CommissionRate < 0 || *in.CommissionRate > 1 {
			return nil, apperrors.Invalid("commissionRate", "must be between 0 and 1")
		}
		settings.CommissionRate = *in.CommissionRate
	}
	if in.DefaultPostingDays != nil {
		if *in.DefaultPostingDays < 1 {
			return nil, apperrors.Invalid("defaultPostingDays", "must be at least 1")
		}
		settings.DefaultPostingDays = *in.DefaultPostingDays
	}
	if in.AutoApproveUsers != nil {
		settings.AutoApproveUsers = *in.AutoApproveUsers
	}
	if in.MaintenanceMode != nil {
		settings.MaintenanceMode = *in.MaintenanceMode
	}
	if in.SupportEmail != nil {
		settings.SupportEmail = *in.SupportEmail
	}
	if in.SupportPhone != nil {
		settings.SupportPhone = *in.SupportPhone
	}

	settings.ID = models.SettingsID
	settings.UpdatedBy = admin.ID
	settings.UpdatedAt = s.now()
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
