package handler

import (
	"net/url"

	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the signed in user
// GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetProfile(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile handles partial profile updates and returns a new token
// PATCH /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	if err := checkFields(c, service.ProfileUpdateFields); err != nil {
		return err
	}
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	response, err := h.userService.UpdateProfile(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// GetUserByEmail
// GET /api/v1/users/email/:email
func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return badRequest(c, "Invalid email")
	}
	user, err := h.userService.GetUserByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// GetUser
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
