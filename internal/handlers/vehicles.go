package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

// VehicleHandler handles a carrier's fleet
type VehicleHandler struct {
	vehicles *services.VehicleService
}

func NewVehicleHandler(vehicles *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

type vehicleRequest struct {
	PlateNumber  *string             `json:"plateNumber"`
	VehicleType  *models.VehicleType `json:"vehicleType"`
	CapacityTons *float64            `json:"capacityTons" validate:"omitempty,gt=0"`
	LengthFt     *float64            `json:"lengthFt" validate:"omitempty,gt=0"`
	Active       *bool               `json:"active"`
}

func (r vehicleRequest) input() services.VehicleInput {
	return services.VehicleInput{
		PlateNumber:  r.PlateNumber,
		VehicleType:  r.VehicleType,
		CapacityTons: r.CapacityTons,
		LengthFt:     r.LengthFt,
		Active:       r.Active,
	}
}

func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var req vehicleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicles.Create(c.UserContext(), user(c), req.input())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Vehicle added",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) ListMine(c *fiber.Ctx) error {
	vehicles, err := h.vehicles.ListMine(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	var req vehicleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicles.Update(c.UserContext(), user(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Vehicle updated",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	if err := h.vehicles.Delete(c.UserContext(), user(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Vehicle deleted"})
}
