package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/services"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// NotificationHandler serves the in-app inbox written by the store hook
type NotificationHandler struct {
	store storage.NotificationStore
	now   func() time.Time
}

func NewNotificationHandler(store storage.NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store, now: time.Now}
}

// List returns the caller's notifications; ?unread=true for unread only
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := h.store.ListNotifications(
		c.UserContext(),
		user(c).ID,
		c.QueryBool("unread", false),
		queryLimit(c, services.DefaultListLimit, services.DefaultListLimit),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.store.MarkNotificationRead(c.UserContext(), user(c).ID, c.Params("id"), h.now()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.store.MarkAllNotificationsRead(c.UserContext(), user(c).ID, h.now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": n,
	})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.store.CountUnreadNotifications(c.UserContext(), user(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread": n})
}
