package handler

import (
	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction records a stock movement through the same path as the
// inventory stock endpoints.
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.CreateTransactionInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateTransaction(c.UserContext(), req, actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result.Transaction)
}

// GetTransactions lists transactions newest first
// GET /api/v1/transactions?itemId=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	var itemID *uuid.UUID
	if raw := c.Query("itemId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("Invalid item ID")
		}
		itemID = &id
	}
	return h.list(c, itemID)
}

// GET /api/v1/transactions/item/:itemId
func (h *TransactionHandler) GetItemTransactions(c *fiber.Ctx) error {
	id, err := paramUUID(c, "itemId", "item")
	if err != nil {
		return err
	}
	return h.list(c, &id)
}

func (h *TransactionHandler) list(c *fiber.Ctx, itemID *uuid.UUID) error {
	txs, err := h.service.ListTransactions(c.UserContext(), itemID)
	if err != nil {
		return err
	}
	return c.JSON(txs)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "transaction")
	if err != nil {
		return err
	}
	tx, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tx)
}
