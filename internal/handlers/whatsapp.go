package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// WhatsAppHandler receives Twilio delivery status callbacks for outbound
// notifications
type WhatsAppHandler struct {
	logger *logrus.Logger
}

func NewWhatsAppHandler(logger *logrus.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{logger: logger}
}

// TwilioStatusPayload is the form Twilio posts on each status change
type TwilioStatusPayload struct {
	MessageSid    string `form:"MessageSid"`
	MessageStatus string `form:"MessageStatus"`
	To            string `form:"To"`
	ErrorCode     string `form:"ErrorCode"`
	ErrorMessage  string `form:"ErrorMessage"`
}

// HandleStatus logs delivery progress; failures are logged as warnings
func (h *WhatsAppHandler) HandleStatus(c *fiber.Ctx) error {
	var payload TwilioStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		h.logger.WithError(err).Warn("invalid twilio status payload")
		return c.SendStatus(fiber.StatusBadRequest)
	}

	entry := h.logger.WithFields(logrus.Fields{
		"sid":    payload.MessageSid,
		"status": payload.MessageStatus,
		"to":     strings.TrimPrefix(payload.To, "whatsapp:"),
	})
	switch payload.MessageStatus {
	case "failed", "undelivered":
		entry.WithFields(logrus.Fields{
			"error_code":    payload.ErrorCode,
			"error_message": payload.ErrorMessage,
		}).Warn("WhatsApp notification not delivered")
	default:
		entry.Debug("WhatsApp notification status")
	}

	// Twilio only needs the acknowledgement
	return c.SendStatus(fiber.StatusNoContent)
}
