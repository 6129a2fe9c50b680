package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

// LoadHandler handles load and bid requests
type LoadHandler struct {
	loads *services.LoadService
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(loads *services.LoadService) *LoadHandler {
	return &LoadHandler{loads: loads}
}

type createLoadRequest struct {
	Origin          string             `json:"origin" validate:"required"`
	Destination     string             `json:"destination" validate:"required"`
	Distance        float64            `json:"distance" validate:"gte=0"`
	GoodsType       string             `json:"goodsType" validate:"required"`
	Weight          float64            `json:"weight" validate:"gt=0"`
	RequiredVehicle models.VehicleType `json:"requiredVehicle"`
	LoadType        models.LoadType    `json:"loadType"`
	OfferPrice      *float64           `json:"offerPrice" validate:"omitempty,gt=0"`
	Notes           string             `json:"notes"`
	PickupDate      *time.Time         `json:"pickupDate"`
}

type bidRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Note   string  `json:"note"`
}

type bidDecisionRequest struct {
	Status models.BidStatus `json:"status" validate:"required,oneof=Accepted Rejected"`
}

type trackingRequest struct {
	Status   models.LoadStatus `json:"status" validate:"required"`
	Location string            `json:"location"`
	Note     string            `json:"note"`
}

// CreateLoad handles creating a new load
func (h *LoadHandler) CreateLoad(c *fiber.Ctx) error {
	var req createLoadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	load, err := h.loads.CreateLoad(c.UserContext(), user(c), services.CreateLoadInput{
		Origin:          req.Origin,
		Destination:     req.Destination,
		Distance:        req.Distance,
		GoodsType:       req.GoodsType,
		Weight:          req.Weight,
		RequiredVehicle: req.RequiredVehicle,
		LoadType:        req.LoadType,
		OfferPrice:      req.OfferPrice,
		Notes:           req.Notes,
		PickupDate:      req.PickupDate,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Load created successfully",
		"load":    load,
	})
}

// GetLoad retrieves a single load by ID
func (h *LoadHandler) GetLoad(c *fiber.Ctx) error {
	load, err := h.loads.GetLoad(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(load)
}

// GetLoads lists loads, open ones unless a status is given
func (h *LoadHandler) GetLoads(c *fiber.Ctx) error {
	vt, err := vehicleTypeParam(c, "vehicleType")
	if err != nil {
		return err
	}
	minWeight, err := queryFloat(c, "minWeight")
	if err != nil {
		return err
	}
	maxWeight, err := queryFloat(c, "maxWeight")
	if err != nil {
		return err
	}
	pickupFrom, err := queryTime(c, "pickupFrom")
	if err != nil {
		return err
	}
	pickupTo, err := queryTime(c, "pickupTo")
	if err != nil {
		return err
	}

	filter := models.LoadFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		VehicleType: vt,
		Status:      models.LoadStatus(c.Query("status")),
		ShipperID:   c.Query("shipperId"),
		MinWeight:   minWeight,
		MaxWeight:   maxWeight,
		PickupFrom:  pickupFrom,
		PickupTo:    pickupTo,
	}
	loads, err := h.loads.ListLoads(c.UserContext(), filter, queryLimit(c, services.DefaultListLimit, services.DefaultListLimit))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// MyLoads lists the caller's posted or assigned loads
func (h *LoadHandler) MyLoads(c *fiber.Ctx) error {
	loads, err := h.loads.MyLoads(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// PlaceBid adds a carrier bid
func (h *LoadHandler) PlaceBid(c *fiber.Ctx) error {
	var req bidRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	bid, err := h.loads.PlaceBid(c.UserContext(), user(c), c.Params("id"), req.Amount, req.Note)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bid placed successfully",
		"bid":     bid,
	})
}

// DecideBid accepts or rejects a bid
func (h *LoadHandler) DecideBid(c *fiber.Ctx) error {
	var req bidDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	load, err := h.loads.DecideBid(c.UserContext(), user(c), c.Params("id"), c.Params("bidId"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Bid " + string(req.Status),
		"load":    load,
	})
}

// AddTracking posts a status or location update
func (h *LoadHandler) AddTracking(c *fiber.Ctx) error {
	var req trackingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	load, err := h.loads.AddTrackingUpdate(c.UserContext(), user(c), c.Params("id"), services.TrackingInput{
		Status:   req.Status,
		Location: req.Location,
		Note:     req.Note,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tracking updated",
		"load":    load,
	})
}

// GetTracking returns the load's progress log
func (h *LoadHandler) GetTracking(c *fiber.Ctx) error {
	updates, err := h.loads.Tracking(c.UserContext(), user(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"updates": updates,
		"count":   len(updates),
	})
}
