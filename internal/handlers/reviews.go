package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type reviewRequest struct {
	LoadID  string `json:"loadId" validate:"required"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req reviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.UserContext(), user(c), req.LoadID, req.Rating, req.Comment)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review submitted",
		"review":  review,
	})
}

// ListForUser returns the reviews a user received
func (h *ReviewHandler) ListForUser(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListForUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
