package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"

	"github.com/shopspring/decimal"
)

func TestTurnover(t *testing.T) {
	if Turnover(5, 0) != nil {
		t.Fatal("expected nil turnover for empty stock")
	}
	got := Turnover(1, 3)
	if got == nil || *got != 0.3333 {
		t.Fatalf("expected 0.3333, got %v", got)
	}
}

func TestInventoryReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := f.createItem(t, "Widget", 10, 2, 3)
	gadget := f.createItem(t, "Gadget", 4, 1, 5)

	if _, err := f.apply(DirectionOut, widget.ID, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(DirectionIn, widget.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(DirectionOut, gadget.ID, 4); err != nil {
		t.Fatal(err)
	}

	rows, err := f.reports.InventoryReport(ctx, InventoryReportFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Name != "Gadget" || rows[1].Name != "Widget" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	g, w := rows[0], rows[1]
	if g.StockOut != 4 || g.Quantity != 0 || g.Turnover != nil {
		t.Fatalf("gadget row wrong: %+v", g)
	}
	if w.StockIn != 2 || w.StockOut != 4 || w.Quantity != 8 {
		t.Fatalf("widget row wrong: %+v", w)
	}
	if w.Turnover == nil || *w.Turnover != 0.5 {
		t.Fatalf("expected widget turnover 0.5, got %v", w.Turnover)
	}
	if !w.Value.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("expected widget value 24, got %s", w.Value)
	}

	future := time.Now().Add(time.Hour)
	rows, err = f.reports.InventoryReport(ctx, InventoryReportFilter{From: &future})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if r.StockIn != 0 || r.StockOut != 0 {
			t.Fatalf("expected no movement after the range start, got %+v", r)
		}
	}

	past := time.Now().Add(-time.Hour)
	if _, err := f.reports.InventoryReport(ctx, InventoryReportFilter{From: &future, To: &past}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestTransactionReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Lamp", 5, 1, 7)
	if _, err := f.apply(DirectionOut, item.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(DirectionIn, item.ID, 1); err != nil {
		t.Fatal(err)
	}

	rows, err := f.reports.TransactionReport(ctx, TransactionReportFilter{Type: model.TxStockOut})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one stock-out row, got %d", len(rows))
	}
	r := rows[0]
	if r.ItemName != "Lamp" || r.CreatedBy != f.actor.Username || !r.TotalValue.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("unexpected row %+v", r)
	}

	if _, err := f.reports.TransactionReport(ctx, TransactionReportFilter{Type: "bogus"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSnapshotCSVQuotesFields(t *testing.T) {
	restocked := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []SnapshotRow{
		{Name: `Bolts, "large"`, Category: "hardware", Quantity: 3, UnitPrice: decimal.RequireFromString("1.5"), Status: model.StatusLowStock, LastRestocked: &restocked},
		{Name: "Nuts", Category: "hardware", Quantity: 0, UnitPrice: decimal.Zero, Status: model.StatusOutOfStock},
	}

	var buf bytes.Buffer
	if err := WriteSnapshotCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "name,category,quantity,unitPrice,status,lastRestocked" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][0] != `Bolts, "large"` || records[1][3] != "1.50" || records[1][5] != "2024-03-01T12:00:00Z" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[2][5] != "" {
		t.Fatalf("expected empty lastRestocked, got %q", records[2][5])
	}
}

func TestEmptyReportCSVHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInventoryReportCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	want := "id,name,category,quantity,minQuantity,reorderPoint,stockIn,stockOut,turnover,value,updatedAt\n"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	if err := WriteTransactionReportCSV(&buf, []TransactionReportRow{}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "id,date,type,itemId") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestInventoryReportCSVTurnoverCell(t *testing.T) {
	half := 0.5
	rows := []InventoryReportRow{{Name: "a", Quantity: 2, StockOut: 1, Turnover: &half}, {Name: "b"}}

	var buf bytes.Buffer
	if err := WriteInventoryReportCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[1][8] != "0.5" || records[2][8] != "" {
		t.Fatalf("unexpected turnover cells %q %q", records[1][8], records[2][8])
	}
}
