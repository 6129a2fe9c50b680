package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAuthToken = "twilio-token"
	testPublicURL = "https://api.loadboard.pk/api/webhooks/twilio/status"
)

func sign(t *testing.T, rawURL string, params map[string]string) string {
	t.Helper()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := rawURL
	for _, k := range keys {
		data += k + params[k]
	}
	mac := hmac.New(sha1.New, []byte(testAuthToken))
	_, err := mac.Write([]byte(data))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateTwilioSignature(t *testing.T) {
	app := fiber.New()
	app.Post("/api/webhooks/twilio/status", ValidateTwilioSignature(testAuthToken, testPublicURL), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	params := map[string]string{"MessageSid": "SM123", "MessageStatus": "delivered"}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	tests := []struct {
		name      string
		signature string
		status    int
	}{
		{name: "valid", signature: sign(t, testPublicURL, params), status: http.StatusNoContent},
		{name: "missing", signature: "", status: http.StatusUnauthorized},
		{name: "wrong", signature: sign(t, testPublicURL+"?x=1", params), status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/twilio/status", strings.NewReader(form.Encode()))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
			if tt.signature != "" {
				req.Header.Set("X-Twilio-Signature", tt.signature)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
