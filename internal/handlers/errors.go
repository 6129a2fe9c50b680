package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
)

// ErrorHandler renders every error returned by a handler as
// {message, error?, fields?}. A 500 carries the raw error text, with the
// stack trace only outside production.
func ErrorHandler(logger *logrus.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		status := apperrors.Status(err)
		body := fiber.Map{"message": err.Error()}

		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			body["message"] = "validation failed"
			body["fields"] = verr.Fields
		}

		if status >= fiber.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("unhandled error")
			body["message"] = "Internal server error"
			body["error"] = err.Error()
			if !production {
				body["error"] = fmt.Sprintf("%+v", err)
			}
		}
		return c.Status(status).JSON(body)
	}
}
