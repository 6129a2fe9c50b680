package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
)

// WhatsAppSender delivers a plain WhatsApp text
type WhatsAppSender interface {
	SendWhatsAppMessage(to string, message string) error
}

type TwilioService struct {
	client   *twilio.RestClient
	from     string // Twilio WhatsApp number, "whatsapp:+14155238886"
	callback string
	logger   *logrus.Logger
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg config.TwilioConfig, logger *logrus.Logger) (*TwilioService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing Twilio credentials in configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioService{
		client:   client,
		from:     cfg.WhatsAppFrom,
		callback: cfg.StatusCallbackURL,
		logger:   logger,
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(message)
	if t.callback != "" {
		params.SetStatusCallback(t.callback)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return fmt.Errorf("twilio error %d", *resp.ErrorCode)
	}

	if resp.Sid != nil {
		t.logger.WithField("sid", *resp.Sid).Debug("WhatsApp message sent")
	}
	return nil
}
