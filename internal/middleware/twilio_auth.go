package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/twilio/twilio-go/client"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
)

// ValidateTwilioSignature validates that the webhook request is from Twilio.
// publicURL is the URL Twilio was configured with; when empty it is rebuilt
// from the request.
func ValidateTwilioSignature(authToken, publicURL string) fiber.Handler {
	validator := client.NewRequestValidator(authToken)

	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Twilio-Signature")
		if signature == "" {
			return apperrors.ErrUnauthorized
		}

		url := publicURL
		if url == "" {
			url = fullURL(c)
		}

		params := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			params[string(key)] = string(value)
		})

		if !validator.Validate(url, params, signature) {
			return apperrors.ErrUnauthorized
		}
		return c.Next()
	}
}

// fullURL rebuilds the public URL of the request
func fullURL(c *fiber.Ctx) string {
	protocol := "https"
	if c.Protocol() == "http" {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s%s", protocol, c.Hostname(), c.OriginalURL())
}
