package services

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// TemplateConfig holds the WhatsApp text layout of one event type
type TemplateConfig struct {
	Description string
	Parameters  []string // keys of Event.Data, substituted for {{1}}, {{2}}, ...
	Text        string
}

// TemplateService renders events into WhatsApp messages
type TemplateService struct {
	sender WhatsAppSender
}

// NewTemplateService creates a new template service
func NewTemplateService(sender WhatsAppSender) *TemplateService {
	return &TemplateService{sender: sender}
}

// EventTemplates maps event types to their WhatsApp text
var EventTemplates = map[models.NotificationType]TemplateConfig{
	models.NotifyBidPlaced: {
		Description: "Shipper: new bid on a load",
		Parameters:  []string{"route", "amount"},
		Text:        "New bid on your load {{1}}: PKR {{2}}",
	},
	models.NotifyBidAccepted: {
		Description: "Carrier: bid accepted",
		Parameters:  []string{"route", "amount"},
		Text:        "Your bid of PKR {{2}} on {{1}} was accepted. Please confirm pickup.",
	},
	models.NotifyBidRejected: {
		Description: "Carrier: bid rejected",
		Parameters:  []string{"route"},
		Text:        "Your bid on {{1}} was not selected.",
	},
	models.NotifyLoadStatus: {
		Description: "Shipper: tracking update",
		Parameters:  []string{"route", "status"},
		Text:        "Load {{1}} is now {{2}}.",
	},
	models.NotifyTruckBooked: {
		Description: "Carrier: truck posting booked",
		Parameters:  []string{"location"},
		Text:        "Your truck available at {{1}} has been booked.",
	},
	models.NotifyDocumentVerified: {
		Description: "Document verification approved",
		Parameters:  []string{"documentType"},
		Text:        "Your {{1}} document has been verified.",
	},
	models.NotifyDocumentRejected: {
		Description: "Document verification rejected",
		Parameters:  []string{"documentType"},
		Text:        "Your {{1}} document was rejected. Please upload it again.",
	},
	models.NotifyAccountStatus: {
		Description: "Account approval decision",
		Parameters:  []string{"status"},
		Text:        "Your account is now {{1}}.",
	},
	models.NotifySearchAlarm: {
		Description: "Saved search has new results",
		Parameters:  []string{"name", "count"},
		Text:        "{{2}} new results for your saved search \"{{1}}\".",
	},
}

// Render builds the message text for an event. Event types without a
// template fall back to the title and body.
func (ts *TemplateService) Render(e events.Event) (string, error) {
	template, exists := EventTemplates[e.Type]
	if !exists {
		if e.Body == "" {
			return e.Title, nil
		}
		return e.Title + "\n" + e.Body, nil
	}

	// Validate required parameters
	text := template.Text
	for i, param := range template.Parameters {
		value, ok := e.Data[param]
		if !ok {
			return "", fmt.Errorf("missing required parameter: %s", param)
		}
		text = strings.ReplaceAll(text, fmt.Sprintf("{{%d}}", i+1), value)
	}
	return text, nil
}

// Send renders and delivers an event to a phone number
func (ts *TemplateService) Send(to string, e events.Event) error {
	text, err := ts.Render(e)
	if err != nil {
		return err
	}
	return ts.sender.SendWhatsAppMessage(to, text)
}
