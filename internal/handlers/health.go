package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	db      Pinger
	redis   Pinger
}

// NewHealthHandler creates a new health handler. redis may be nil when the
// cache is disabled.
func NewHealthHandler(version string, db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{
		Version: version,
		db:      db,
		redis:   redis,
	}
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down: " + err.Error()
	}
	return "up"
}

// Check returns the health status of the service and its backends
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	db := probe(ctx, h.db)
	redis := probe(ctx, h.redis)

	status, code := "OK", fiber.StatusOK
	if db != "up" {
		status, code = "DEGRADED", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"service":  "Load Board Backend",
		"version":  h.Version,
		"database": db,
		"redis":    redis,
	})
}
