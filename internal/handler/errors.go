package handler

import (
	"errors"
	"sort"
	"strings"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewErrorHandler maps errors returned by handlers to {"error": message}
// responses. Internal errors are logged; their detail is only sent back when
// verbose is set.
func NewErrorHandler(log logrus.FieldLogger, verbose bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := apperror.HTTPStatus(err)
		if status >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		return c.Status(status).JSON(fiber.Map{"error": apperror.PublicMessage(err, verbose)})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// Helper untuk parse UUID dari path param
func paramUUID(c *fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid %s ID", what)
	}
	return id, nil
}

// currentPrincipal returns the caller set by the auth middleware.
func currentPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return auth.Principal{}, apperror.Auth("Unauthorized")
	}
	return p, nil
}

// checkFields rejects a JSON object body that has keys outside allowed.
func checkFields(c *fiber.Ctx, allowed map[string]bool) error {
	var raw map[string]any
	if err := c.App().Config().JSONDecoder(c.Body(), &raw); err != nil {
		return apperror.Validation("Invalid JSON")
	}
	var unknown []string
	for k := range raw {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperror.Validation("Invalid updates: %s", strings.Join(unknown, ", "))
	}
	return nil
}
