package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

type SearchHandler struct {
	searches *services.SavedSearchService
}

func NewSearchHandler(searches *services.SavedSearchService) *SearchHandler {
	return &SearchHandler{searches: searches}
}

type savedSearchRequest struct {
	Name         string              `json:"name" validate:"required,max=100"`
	Kind         models.SearchKind   `json:"kind" validate:"required,oneof=loads trucks"`
	TruckFilter  *models.TruckFilter `json:"truckFilter"`
	LoadFilter   *models.LoadFilter  `json:"loadFilter"`
	AlarmEnabled bool                `json:"alarmEnabled"`
}

func (r savedSearchRequest) input() services.SavedSearchInput {
	return services.SavedSearchInput{
		Name:         r.Name,
		Kind:         r.Kind,
		TruckFilter:  r.TruckFilter,
		LoadFilter:   r.LoadFilter,
		AlarmEnabled: r.AlarmEnabled,
	}
}

type alarmRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *SearchHandler) Create(c *fiber.Ctx) error {
	var req savedSearchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	search, err := h.searches.Create(c.UserContext(), user(c), req.input())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Search saved",
		"search":  search,
	})
}

func (h *SearchHandler) List(c *fiber.Ctx) error {
	searches, err := h.searches.List(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"searches": searches,
		"count":    len(searches),
	})
}

func (h *SearchHandler) Get(c *fiber.Ctx) error {
	search, err := h.searches.Get(c.UserContext(), user(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(search)
}

func (h *SearchHandler) Update(c *fiber.Ctx) error {
	var req savedSearchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	search, err := h.searches.Update(c.UserContext(), user(c), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Search updated",
		"search":  search,
	})
}

func (h *SearchHandler) Delete(c *fiber.Ctx) error {
	if err := h.searches.Delete(c.UserContext(), user(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Search deleted"})
}

// Run executes the search now
func (h *SearchHandler) Run(c *fiber.Ctx) error {
	run, err := h.searches.Run(c.UserContext(), user(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(run)
}

func (h *SearchHandler) ToggleAlarm(c *fiber.Ctx) error {
	var req alarmRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	search, err := h.searches.ToggleAlarm(c.UserContext(), user(c), c.Params("id"), req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Alarm updated",
		"search":  search,
	})
}
