package service

import (
	"context"
	"errors"
	"testing"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
)

func TestCreateAlertConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Gloves", 3, 5, 1)

	in := CreateAlertInput{ItemID: item.ID, Type: model.AlertLowStock, Message: "reorder gloves"}
	alert, err := f.alerts.CreateAlert(ctx, in, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if alert.Status != model.AlertActive || alert.CreatedBy != f.actor.UserID {
		t.Fatalf("unexpected alert %+v", alert)
	}

	if _, err := f.alerts.CreateAlert(ctx, in, f.actor); !errors.Is(err, ErrAlertExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := f.alerts.CreateAlert(ctx, CreateAlertInput{ItemID: uuid.New(), Type: model.AlertLowStock, Message: "x"}, f.actor); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	if _, err := f.alerts.CreateAlert(ctx, CreateAlertInput{ItemID: item.ID, Type: "weird", Message: "x"}, f.actor); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Masks", 10, 5, 1)

	alert, err := f.alerts.CreateAlert(ctx, CreateAlertInput{ItemID: item.ID, Type: model.AlertLowStock, Message: "check"}, f.actor)
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := f.alerts.ResolveAlert(ctx, alert.ID, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Status != model.AlertResolved || resolved.ResolvedAt == nil {
		t.Fatalf("expected resolved alert, got %+v", resolved)
	}
	first := *resolved.ResolvedAt

	again, err := f.alerts.ResolveAlert(ctx, alert.ID, f.actor)
	if err != nil {
		t.Fatalf("resolving twice should succeed: %v", err)
	}
	if !again.ResolvedAt.Equal(first) {
		t.Fatal("resolving twice must not move resolvedAt")
	}

	if _, err := f.alerts.ResolveAlert(ctx, uuid.New(), f.actor); !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListActiveIncludesItemFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Soap", 5, 10, 1)
	if _, err := f.apply(DirectionOut, item.ID, 1); err != nil {
		t.Fatal(err)
	}

	active, err := f.alerts.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active alert, got %d", len(active))
	}
	if active[0].ItemName != "Soap" || active[0].ReorderPoint != 10 || active[0].Quantity != 4 {
		t.Fatalf("unexpected active alert row %+v", active[0])
	}

	got, err := f.alerts.GetAlert(ctx, active[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Item == nil || got.Item.Name != "Soap" {
		t.Fatal("expected alert to carry its item")
	}
}
