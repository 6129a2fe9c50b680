package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

const defaultRateListLimit = 10

// RateHandler serves lane rate intelligence
type RateHandler struct {
	rates   *services.LaneRateService
	trihaul *services.TriHaulService
}

func NewRateHandler(rates *services.LaneRateService, trihaul *services.TriHaulService) *RateHandler {
	return &RateHandler{rates: rates, trihaul: trihaul}
}

func laneParams(c *fiber.Ctx) (string, string, error) {
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	fields := map[string]string{}
	if origin == "" {
		fields["origin"] = "is required"
	}
	if destination == "" {
		fields["destination"] = "is required"
	}
	if len(fields) > 0 {
		return "", "", &apperrors.ValidationError{Fields: fields}
	}
	return origin, destination, nil
}

// GetLaneRate returns the snapshot for a lane, computing it on a cache miss
func (h *RateHandler) GetLaneRate(c *fiber.Ctx) error {
	origin, destination, err := laneParams(c)
	if err != nil {
		return err
	}
	vt, err := vehicleTypeParam(c, "vehicleType")
	if err != nil {
		return err
	}

	rate, err := h.rates.Get(c.UserContext(), origin, destination, vt)
	if err != nil {
		return err
	}
	if rate == nil {
		return c.JSON(fiber.Map{
			"hasData": false,
			"message": "No delivered loads on this lane in the last 7 days",
		})
	}

	return c.JSON(fiber.Map{
		"hasData": true,
		"rate":    rate,
	})
}

func (h *RateHandler) Trending(c *fiber.Ctx) error {
	lanes, err := h.rates.Trending(c.UserContext(), queryLimit(c, defaultRateListLimit, services.DefaultListLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"lanes": lanes,
		"count": len(lanes),
	})
}

func (h *RateHandler) HotLanes(c *fiber.Ctx) error {
	lanes, err := h.rates.HotLanes(c.UserContext(), queryLimit(c, defaultRateListLimit, services.DefaultListLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"lanes": lanes,
		"count": len(lanes),
	})
}

// Refresh recomputes every recently active lane
func (h *RateHandler) Refresh(c *fiber.Ctx) error {
	n, err := h.rates.RefreshAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Lane rates refreshed",
		"refreshed": n,
	})
}

// Compare returns the lane snapshot per vehicle type. ?vehicleTypes= takes a
// comma separated list; all concrete types when absent.
func (h *RateHandler) Compare(c *fiber.Ctx) error {
	origin, destination, err := laneParams(c)
	if err != nil {
		return err
	}

	var types []models.VehicleType
	for _, raw := range strings.Split(c.Query("vehicleTypes"), ",") {
		vt := models.VehicleType(strings.TrimSpace(raw))
		if vt == "" {
			continue
		}
		if !vt.Valid() {
			return apperrors.Invalid("vehicleTypes", "unknown vehicle type "+string(vt))
		}
		types = append(types, vt)
	}

	comparisons, err := h.rates.Compare(c.UserContext(), origin, destination, types)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"origin":      origin,
		"destination": destination,
		"comparisons": comparisons,
	})
}

// TriHaul proposes a third leg from cached lane rates only
func (h *RateHandler) TriHaul(c *fiber.Ctx) error {
	origin, destination, err := laneParams(c)
	if err != nil {
		return err
	}
	vt, err := vehicleTypeParam(c, "vehicleType")
	if err != nil {
		return err
	}

	result, err := h.trihaul.Suggest(c.UserContext(), origin, destination, vt)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
