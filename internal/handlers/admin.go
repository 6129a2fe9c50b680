package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// AdminHandler handles admin operations
type AdminHandler struct {
	admin *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type userStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required"`
	Reason string            `json:"reason"`
}

type settingsRequest struct {
	PlatformName       *string  `json:"platformName"`
	CommissionRate     *float64 `json:"commissionRate"`
	DefaultPostingDays *int     `json:"defaultPostingDays"`
	AutoApproveUsers   *bool    `json:"autoApproveUsers"`
	MaintenanceMode    *bool    `json:"maintenanceMode"`
	SupportEmail       *string  `json:"supportEmail" validate:"omitempty,email"`
	SupportPhone       *string  `json:"supportPhone"`
}

// ListUsers lists accounts, optionally by ?role= and ?status=
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext(), storage.UserFilter{
		Role:   models.Role(c.Query("role")),
		Status: models.UserStatus(c.Query("status")),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// SetUserStatus approves, suspends or rejects an account
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	var req userStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	u, err := h.admin.SetUserStatus(c.UserContext(), user(c), c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User status updated",
		"user":    u,
	})
}

// GetSettings is readable by any authenticated user
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.admin.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	settings, err := h.admin.UpdateSettings(c.UserContext(), user(c), services.SettingsInput{
		PlatformName:       req.PlatformName,
		CommissionRate:     req.CommissionRate,
		DefaultPostingDays: req.DefaultPostingDays,
		AutoApproveUsers:   req.AutoApproveUsers,
		MaintenanceMode:    req.MaintenanceMode,
		SupportEmail:       req.SupportEmail,
		SupportPhone:       req.SupportPhone,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Settings updated",
		"settings": settings,
	})
}
