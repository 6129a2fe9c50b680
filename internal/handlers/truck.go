package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

// TruckHandler handles truck availability postings and truck search
type TruckHandler struct {
	trucks *services.TruckService
}

// NewTruckHandler creates a new truck handler
func NewTruckHandler(trucks *services.TruckService) *TruckHandler {
	return &TruckHandler{trucks: trucks}
}

// postingRequest mirrors services.PostingInput; omitted fields stay unchanged
// on update
type postingRequest struct {
	VehicleID             *string             `json:"vehicleId"`
	CurrentLocation       *string             `json:"currentLocation"`
	Destination           *string             `json:"destination"`
	CurrentLat            *float64            `json:"currentLat" validate:"omitempty,gte=-90,lte=90"`
	CurrentLng            *float64            `json:"currentLng" validate:"omitempty,gte=-180,lte=180"`
	AvailableDate         *time.Time          `json:"availableDate"`
	DeadheadOriginKm      *float64            `json:"deadheadOriginKm" validate:"omitempty,gte=0"`
	DeadheadDestinationKm *float64            `json:"deadheadDestinationKm" validate:"omitempty,gte=0"`
	EquipmentType         *models.VehicleType `json:"equipmentType"`
	LoadType              *models.LoadType    `json:"loadType"`
	MaxLength             *float64            `json:"maxLength" validate:"omitempty,gte=0"`
	MaxWeight             *float64            `json:"maxWeight" validate:"omitempty,gte=0"`
	Notes                 *string             `json:"notes"`
	Status                *models.TruckStatus `json:"status"`
	ExpiresAt             *time.Time          `json:"expiresAt"`
}

func (r postingRequest) input() services.PostingInput {
	return services.PostingInput{
		VehicleID:             r.VehicleID,
		CurrentLocation:       r.CurrentLocation,
		Destination:           r.Destination,
		CurrentLat:            r.CurrentLat,
		CurrentLng:            r.CurrentLng,
		AvailableDate:         r.AvailableDate,
		DeadheadOriginKm:      r.DeadheadOriginKm,
		DeadheadDestinationKm: r.DeadheadDestinationKm,
		EquipmentType:         r.EquipmentType,
		LoadType:              r.LoadType,
		MaxLength:             r.MaxLength,
		MaxWeight:             r.MaxWeight,
		Notes:                 r.Notes,
		Status:                r.Status,
		ExpiresAt:             r.ExpiresAt,
	}
}

type bookRequest struct {
	LoadID string `json:"loadId"`
}

// truckFilter reads the search criteria shared by list and search
func truckFilter(c *fiber.Ctx) (models.TruckFilter, error) {
	var f models.TruckFilter
	var err error

	f.CurrentLocation = c.Query("currentLocation", c.Query("origin"))
	f.Destination = c.Query("destination")
	if f.EquipmentType, err = vehicleTypeParam(c, "equipmentType"); err != nil {
		return f, err
	}
	if lt := models.LoadType(c.Query("loadType")); lt != "" {
		if !lt.Valid() {
			return f, apperrors.Invalid("loadType", "must be Full, Partial or Any")
		}
		f.LoadType = lt
	}
	if f.AvailableDate, err = queryTime(c, "availableDate"); err != nil {
		return f, err
	}
	if f.MinWeight, err = queryFloat(c, "minWeight"); err != nil {
		return f, err
	}
	if f.MinLength, err = queryFloat(c, "minLength"); err != nil {
		return f, err
	}
	f.MaxAge = c.QueryInt("maxAge", 0)

	if c.Query("lat") != "" || c.Query("lng") != "" {
		lat, err := queryFloat(c, "lat")
		if err != nil {
			return f, err
		}
		lng, err := queryFloat(c, "lng")
		if err != nil {
			return f, err
		}
		radius, err := queryFloat(c, "radiusKm")
		if err != nil {
			return f, err
		}
		if radius <= 0 {
			return f, apperrors.Invalid("radiusKm", "is required with lat and lng")
		}
		f.Near = &models.GeoRadius{Lat: lat, Lng: lng, RadiusKm: radius}
	}
	return f, nil
}

// PostAvailability creates a truck posting
func (h *TruckHandler) PostAvailability(c *fiber.Ctx) error {
	var req postingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	posting, err := h.trucks.CreatePosting(c.UserContext(), user(c), req.input())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Truck availability posted",
		"posting": posting,
	})
}

// ListAvailability lists searchable postings
func (h *TruckHandler) ListAvailability(c *fiber.Ctx) error {
	filter, err := truckFilter(c)
	if err != nil {
		return err
	}

	postings, err := h.trucks.ListPostings(c.UserContext(), filter, queryLimit(c, services.DefaultListLimit, services.DefaultListLimit))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"postings": postings,
		"count":    len(postings),
	})
}

// MyPostings lists every posting of the caller, expired ones included
func (h *TruckHandler) MyPostings(c *fiber.Ctx) error {
	postings, err := h.trucks.MyPostings(c.UserContext(), user(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"postings": postings,
		"count":    len(postings),
	})
}

func (h *TruckHandler) UpdateAvailability(c *fiber.Ctx) error {
	var req postingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	posting, err := h.trucks.UpdatePosting(c.UserContext(), user(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Truck availability updated",
		"posting": posting,
	})
}

func (h *TruckHandler) DeleteAvailability(c *fiber.Ctx) error {
	if err := h.trucks.DeletePosting(c.UserContext(), user(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Truck availability deleted"})
}

// Book reserves a posting for the calling shipper
func (h *TruckHandler) Book(c *fiber.Ctx) error {
	var req bookRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	posting, err := h.trucks.BookPosting(c.UserContext(), user(c), c.Params("id"), req.LoadID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Truck booked successfully",
		"posting": posting,
	})
}

// Search partitions matching postings into exact and similar hits
func (h *TruckHandler) Search(c *fiber.Ctx) error {
	filter, err := truckFilter(c)
	if err != nil {
		return err
	}

	result, err := h.trucks.Search(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
