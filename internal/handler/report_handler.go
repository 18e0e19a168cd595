package handler

import (
	"io"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain endDate
// covers the whole day.
func parseDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperror.Validation("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseDate(c, "startDate", false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c, "endDate", true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func wantCSV(c *fiber.Ctx) (bool, error) {
	switch c.Query("format", "json") {
	case "json":
		return false, nil
	case "csv":
		return true, nil
	default:
		return false, apperror.Validation("format must be csv or json")
	}
}

// InventoryReport returns per item stock movement and value
// GET /api/v1/reports/inventory?startDate=&endDate=&category=&format=json|csv
func (h *ReportHandler) InventoryReport(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	asCSV, err := wantCSV(c)
	if err != nil {
		return err
	}

	rows, err := h.service.InventoryReport(c.UserContext(), service.InventoryReportFilter{
		Category: c.Query("category"),
		From:     from,
		To:       to,
	})
	if err != nil {
		return err
	}
	if asCSV {
		return sendCSV(c, "inventory-report.csv", func(w io.Writer) error {
			return service.WriteInventoryReportCSV(w, rows)
		})
	}
	return c.JSON(rows)
}

// TransactionReport lists transactions with item and creator details
// GET /api/v1/reports/transactions?startDate=&endDate=&transactionType=&format=json|csv
func (h *ReportHandler) TransactionReport(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	asCSV, err := wantCSV(c)
	if err != nil {
		return err
	}

	rows, err := h.service.TransactionReport(c.UserContext(), service.TransactionReportFilter{
		From: from,
		To:   to,
		Type: model.TransactionType(c.Query("transactionType", c.Query("type"))),
	})
	if err != nil {
		return err
	}
	if asCSV {
		return sendCSV(c, "transaction-report.csv", func(w io.Writer) error {
			return service.WriteTransactionReportCSV(w, rows)
		})
	}
	return c.JSON(rows)
}
