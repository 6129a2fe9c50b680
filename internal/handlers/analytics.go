package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.analytics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// TopLanes ranks lanes delivered on over the analytics window
func (h *AnalyticsHandler) TopLanes(c *fiber.Ctx) error {
	lanes, err := h.analytics.TopLanes(c.UserContext(), queryLimit(c, defaultRateListLimit, services.DefaultListLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"lanes": lanes,
		"count": len(lanes),
	})
}

// CarrierPerformance is visible to the carrier themself and to admins
func (h *AnalyticsHandler) CarrierPerformance(c *fiber.Ctx) error {
	caller := user(c)
	id := c.Params("id")
	if caller.ID != id && !caller.Role.IsAdmin() {
		return apperrors.Forbidden("carrier performance is private")
	}

	perf, err := h.analytics.CarrierPerformance(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(perf)
}
