package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-tracker/internal/apperror"

	"github.com/shopspring/decimal"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createItem(t, "Plenty", 20, 5, 2)
	low := f.createItem(t, "Low", 6, 5, 1)
	f.createItem(t, "None", 0, 5, 9)

	if _, err := f.apply(DirectionOut, low.ID, 2); err != nil {
		t.Fatal(err)
	}

	stats, err := f.dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalItems != 3 || stats.LowStockCount != 1 || stats.OutOfStockCount != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.ActiveAlerts != 1 {
		t.Fatalf("expected one active alert, got %d", stats.ActiveAlerts)
	}
	if !stats.TotalValuation.Equal(decimal.NewFromInt(44)) {
		t.Fatalf("expected valuation 44, got %s", stats.TotalValuation)
	}
}

func TestStockMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Moving", 10, 1, 1)
	if _, err := f.apply(DirectionOut, item.ID, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(DirectionIn, item.ID, 5); err != nil {
		t.Fatal(err)
	}

	data, err := f.dashboard.GetStockMovement(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != DefaultMovementDays {
		t.Fatalf("expected %d days, got %d", DefaultMovementDays, len(data))
	}
	today := data[len(data)-1]
	if today.Date != time.Now().UTC().Format(time.DateOnly) {
		t.Fatalf("expected last entry to be today, got %s", today.Date)
	}
	if today.Inbound != 5 || today.Outbound != 3 {
		t.Fatalf("unexpected movement today %+v", today)
	}
	for _, d := range data[:len(data)-1] {
		if d.Inbound != 0 || d.Outbound != 0 {
			t.Fatalf("expected no movement on %s", d.Date)
		}
	}

	if _, err := f.dashboard.GetStockMovement(ctx, 1000); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
