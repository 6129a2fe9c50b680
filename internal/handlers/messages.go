package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type messageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	LoadID      string `json:"loadId"`
	Body        string `json:"body" validate:"required,max=2000"`
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req messageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Send(c.UserContext(), user(c), req.RecipientID, req.LoadID, req.Body)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent",
		"data":    msg,
	})
}

// Inbox lists one summary per counterpart, newest first
func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	conversations, err := h.messages.Inbox(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// Conversation returns the thread with :userId and marks it read
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	msgs, err := h.messages.Conversation(c.UserContext(), user(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"messages": msgs,
		"count":    len(msgs),
	})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.messages.UnreadCount(c.UserContext(), user(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread": n})
}
