package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one entry per request, at error level for 5xx and warn
// level for 4xx responses.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		// Let the app's ErrorHandler write the response so the status is final.
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// fiber reuses request buffers, entries may outlive the handler
		status := c.Response().StatusCode()
		entry := log.WithFields(logrus.Fields{
			"request_id":    c.Locals("requestid"),
			"method":        utils.CopyString(c.Method()),
			"path":          utils.CopyString(c.Path()),
			"status_code":   status,
			"latency":       time.Since(start),
			"client_ip":     utils.CopyString(c.IP()),
			"user_agent":    utils.CopyString(c.Get(fiber.HeaderUserAgent)),
			"response_size": len(c.Response().Body()),
		})
		if principal, ok := PrincipalFrom(c); ok {
			entry = entry.WithField("user", principal.Username)
		}
		if chainErr != nil {
			entry = entry.WithError(chainErr)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("HTTP request completed with server error")
		case status >= fiber.StatusBadRequest:
			entry.Warn("HTTP request completed with client error")
		default:
			entry.Info("HTTP request completed successfully")
		}
		return nil
	}
}
