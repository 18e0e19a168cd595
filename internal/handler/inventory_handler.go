package handler

import (
	"io"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
	stock   service.StockService
	reports service.ReportService
}

func NewInventoryHandler(s service.InventoryService, stock service.StockService, reports service.ReportService) *InventoryHandler {
	return &InventoryHandler{service: s, stock: stock, reports: reports}
}

// StockRequest is the body of the stock-in and stock-out endpoints.
type StockRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// CreateItem handles item creation
// POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req service.CreateItemInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	item, err := h.service.CreateItem(c.UserContext(), req, actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItems lists items with filters, sorting and paging
// GET /api/v1/inventory?search=&category=&status=&sortBy=name&sortOrder=asc&page=1&limit=10
func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	page, err := h.service.ListItems(c.UserContext(), service.ListItemsQuery{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		Status:    model.ItemStatus(c.Query("status")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", service.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "item")
	if err != nil {
		return err
	}
	item, err := h.service.GetItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// UpdateItem changes item metadata. Quantity only moves through stock-in
// and stock-out.
// PUT /api/v1/inventory/:id
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "item")
	if err != nil {
		return err
	}
	if err := checkFields(c, service.UpdatableItemFields); err != nil {
		return err
	}
	var req service.UpdateItemInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	item, err := h.service.UpdateItem(c.UserContext(), id, req, actor)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "item")
	if err != nil {
		return err
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteItem(c.UserContext(), id, actor); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Inventory item deleted"})
}

// GET /api/v1/inventory/status/out-of-stock
func (h *InventoryHandler) GetOutOfStock(c *fiber.Ctx) error {
	items, err := h.service.ListOutOfStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// ExportReport returns the inventory snapshot as CSV (default) or JSON
// GET /api/v1/inventory/export/report?format=csv|json
func (h *InventoryHandler) ExportReport(c *fiber.Ctx) error {
	format := c.Query("format", "csv")
	if format != "csv" && format != "json" {
		return badRequest(c, "format must be csv or json")
	}

	rows, err := h.reports.InventorySnapshot(c.UserContext())
	if err != nil {
		return err
	}
	if format == "json" {
		return c.JSON(rows)
	}
	return sendCSV(c, "inventory-report.csv", func(w io.Writer) error {
		return service.WriteSnapshotCSV(w, rows)
	})
}

func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	return h.moveStock(c, service.DirectionIn)
}

func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	return h.moveStock(c, service.DirectionOut)
}

// moveStock applies a stock change and responds with the updated item.
func (h *InventoryHandler) moveStock(c *fiber.Ctx, dir service.Direction) error {
	id, err := paramUUID(c, "id", "item")
	if err != nil {
		return err
	}
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	result, err := h.stock.ApplyStockChange(c.UserContext(), service.StockChange{
		ItemID:    id,
		Direction: dir,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
		Actor:     actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(result.Item)
}
