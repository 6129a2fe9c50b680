package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

type DocumentHandler struct {
	documents *services.DocumentService
}

func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type documentRequest struct {
	Type      models.DocumentType `json:"type" validate:"required"`
	URL       string              `json:"url" validate:"required,url"`
	LoadID    string              `json:"loadId"`
	VehicleID string              `json:"vehicleId"`
	Notes     string              `json:"notes"`
}

type verifyRequest struct {
	Status models.DocumentStatus `json:"status" validate:"required"`
	Notes  string                `json:"notes"`
}

func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req documentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	doc, err := h.documents.Create(c.UserContext(), user(c), services.DocumentInput{
		Type:      req.Type,
		URL:       req.URL,
		LoadID:    req.LoadID,
		VehicleID: req.VehicleID,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Document uploaded",
		"document": doc,
	})
}

func (h *DocumentHandler) ListMine(c *fiber.Ctx) error {
	docs, err := h.documents.ListMine(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"count":     len(docs),
	})
}

// ListByStatus is the admin review queue, pending unless ?status= is set
func (h *DocumentHandler) ListByStatus(c *fiber.Ctx) error {
	docs, err := h.documents.ListByStatus(c.UserContext(), models.DocumentStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"count":     len(docs),
	})
}

func (h *DocumentHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	doc, err := h.documents.Verify(c.UserContext(), user(c), c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Document " + string(doc.Status),
		"document": doc,
	})
}
