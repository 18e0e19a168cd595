package handler

import (
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	service service.AlertService
}

func NewAlertHandler(s service.AlertService) *AlertHandler {
	return &AlertHandler{service: s}
}

// CreateAlert raises a manual alert
// POST /api/v1/alerts
func (h *AlertHandler) CreateAlert(c *fiber.Ctx) error {
	var req service.CreateAlertInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	alert, err := h.service.CreateAlert(c.UserContext(), req, actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(alert)
}

func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ListAlerts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(alerts)
}

// GET /api/v1/alerts/active
func (h *AlertHandler) GetActiveAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(alerts)
}

func (h *AlertHandler) GetAlert(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "alert")
	if err != nil {
		return err
	}
	alert, err := h.service.GetAlert(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(alert)
}

// PUT /api/v1/alerts/:id/resolve
func (h *AlertHandler) ResolveAlert(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "alert")
	if err != nil {
		return err
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	alert, err := h.service.ResolveAlert(c.UserContext(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(alert)
}
