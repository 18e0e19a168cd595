package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryReportFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

type TransactionReportFilter struct {
	From *time.Time
	To   *time.Time
	Type model.TransactionType
}

// InventoryReportRow sums an item's movements in the report range. Turnover
// is nil when the item has no stock on hand.
type InventoryReportRow struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"minQuantity"`
	ReorderPoint int             `json:"reorderPoint"`
	StockIn      int64           `json:"stockIn"`
	StockOut     int64           `json:"stockOut"`
	Turnover     *float64        `json:"turnover"`
	Value        decimal.Decimal `json:"value"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

var inventoryReportHeader = []string{
	"id", "name", "category", "quantity", "minQuantity", "reorderPoint",
	"stockIn", "stockOut", "turnover", "value", "updatedAt",
}

func (r InventoryReportRow) csvRecord() []string {
	turnover := ""
	if r.Turnover != nil {
		turnover = strconv.FormatFloat(*r.Turnover, 'f', -1, 64)
	}
	return []string{
		r.ID.String(), r.Name, r.Category,
		strconv.Itoa(r.Quantity), strconv.Itoa(r.MinQuantity), strconv.Itoa(r.ReorderPoint),
		strconv.FormatInt(r.StockIn, 10), strconv.FormatInt(r.StockOut, 10),
		turnover, r.Value.StringFixed(2), formatTime(r.UpdatedAt),
	}
}

type TransactionReportRow struct {
	ID         uuid.UUID             `json:"id"`
	Date       time.Time             `json:"date"`
	Type       model.TransactionType `json:"type"`
	ItemID     uuid.UUID             `json:"itemId"`
	ItemName   string                `json:"itemName"`
	Category   string                `json:"category"`
	Quantity   int                   `json:"quantity"`
	UnitPrice  decimal.Decimal       `json:"unitPrice"`
	TotalValue decimal.Decimal       `json:"totalValue"`
	Notes      string                `json:"notes"`
	CreatedBy  string                `json:"createdBy"`
}

var transactionReportHeader = []string{
	"id", "date", "type", "itemId", "itemName", "category",
	"quantity", "unitPrice", "totalValue", "notes", "createdBy",
}

func (r TransactionReportRow) csvRecord() []string {
	return []string{
		r.ID.String(), formatTime(r.Date), string(r.Type), r.ItemID.String(), r.ItemName, r.Category,
		strconv.Itoa(r.Quantity), r.UnitPrice.StringFixed(2), r.TotalValue.StringFixed(2),
		r.Notes, r.CreatedBy,
	}
}

// SnapshotRow is one line of the inventory export.
type SnapshotRow struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	Status        model.ItemStatus `json:"status"`
	LastRestocked *time.Time       `json:"lastRestocked"`
}

var snapshotHeader = []string{"name", "category", "quantity", "unitPrice", "status", "lastRestocked"}

func (r SnapshotRow) csvRecord() []string {
	restocked := ""
	if r.LastRestocked != nil {
		restocked = formatTime(*r.LastRestocked)
	}
	return []string{
		r.Name, r.Category, strconv.Itoa(r.Quantity),
		r.UnitPrice.StringFixed(2), string(r.Status), restocked,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type csvRecorder interface {
	csvRecord() []string
}

// writeCSV writes header and rows with standard quoting. An empty report
// still gets its header.
func writeCSV[T csvRecorder](w io.Writer, header []string, rows []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.csvRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteInventoryReportCSV(w io.Writer, rows []InventoryReportRow) error {
	return writeCSV(w, inventoryReportHeader, rows)
}

func WriteTransactionReportCSV(w io.Writer, rows []TransactionReportRow) error {
	return writeCSV(w, transactionReportHeader, rows)
}

func WriteSnapshotCSV(w io.Writer, rows []SnapshotRow) error {
	return writeCSV(w, snapshotHeader, rows)
}

type ReportService interface {
	InventoryReport(ctx context.Context, f InventoryReportFilter) ([]InventoryReportRow, error)
	TransactionReport(ctx context.Context, f TransactionReportFilter) ([]TransactionReportRow, error)
	InventorySnapshot(ctx context.Context) ([]SnapshotRow, error)
}

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

func checkRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return apperror.Validation("endDate must not be before startDate")
	}
	return nil
}

// Turnover is stockOut relative to quantity on hand, nil for an empty shelf.
func Turnover(stockOut int64, quantity int) *float64 {
	if quantity <= 0 {
		return nil
	}
	v, _ := decimal.NewFromInt(stockOut).
		DivRound(decimal.NewFromInt(int64(quantity)), 4).
		Float64()
	return &v
}

func (s *reportService) InventoryReport(ctx context.Context, f InventoryReportFilter) ([]InventoryReportRow, error) {
	if err := checkRange(f.From, f.To); err != nil {
		return nil, err
	}
	repos := s.store.Repos()

	items, _, err := repos.Items.List(ctx, repository.ItemFilter{Category: f.Category, SortBy: "name"})
	if err != nil {
		return nil, internal("inventory report items", err)
	}
	totals, err := repos.Transactions.SumByItem(ctx, repository.TransactionFilter{From: f.From, To: f.To})
	if err != nil {
		return nil, internal("inventory report totals", err)
	}

	rows := make([]InventoryReportRow, 0, len(items))
	for i := range items {
		item := &items[i]
		t := totals[item.ID]
		rows = append(rows, InventoryReportRow{
			ID:           item.ID,
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			MinQuantity:  item.MinQuantity,
			ReorderPoint: item.ReorderPoint,
			StockIn:      t.StockIn,
			StockOut:     t.StockOut,
			Turnover:     Turnover(t.StockOut, item.Quantity),
			Value:        item.Value(),
			UpdatedAt:    item.UpdatedAt,
		})
	}
	return rows, nil
}

func (s *reportService) TransactionReport(ctx context.Context, f TransactionReportFilter) ([]TransactionReportRow, error) {
	if err := checkRange(f.From, f.To); err != nil {
		return nil, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, ErrInvalidDirection
	}

	txs, err := s.store.Repos().Transactions.List(ctx, repository.TransactionFilter{From: f.From, To: f.To, Type: f.Type})
	if err != nil {
		return nil, internal("transaction report", err)
	}

	rows := make([]TransactionReportRow, 0, len(txs))
	for _, tx := range txs {
		row := TransactionReportRow{
			ID:         tx.ID,
			Date:       tx.Date,
			Type:       tx.Type,
			ItemID:     tx.ItemID,
			Quantity:   tx.Quantity,
			TotalValue: tx.TotalValue,
			Notes:      tx.Notes,
		}
		if tx.Item != nil {
			row.ItemName = tx.Item.Name
			row.Category = tx.Item.Category
			row.UnitPrice = tx.Item.UnitPrice
		}
		if tx.Creator != nil {
			row.CreatedBy = tx.Creator.Username
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) InventorySnapshot(ctx context.Context) ([]SnapshotRow, error) {
	items, _, err := s.store.Repos().Items.List(ctx, repository.ItemFilter{SortBy: "name"})
	if err != nil {
		return nil, internal("inventory snapshot", err)
	}
	rows := make([]SnapshotRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, SnapshotRow{
			Name:          item.Name,
			Category:      item.Category,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Status:        item.Status,
			LastRestocked: item.LastRestocked,
		})
	}
	return rows, nil
}
