package events

import (
	"time"

	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// Event is a domain notification emitted after a state change commits
type Event struct {
	Type       models.NotificationType `json:"type"`
	UserID     string                  `json:"userId"` // recipient
	ActorID    string                  `json:"actorId,omitempty"`
	Title      string                  `json:"title"`
	Body       string                  `json:"body"`
	Data       map[string]string       `json:"data,omitempty"`
	OccurredAt time.Time               `json:"occurredAt"`
}
