package service

import (
	"context"
	"errors"
	"testing"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateItemInput
	}{
		{"missing name", CreateItemInput{Category: "c"}},
		{"blank name", CreateItemInput{Name: "  ", Category: "c"}},
		{"missing category", CreateItemInput{Name: "n"}},
		{"negative quantity", CreateItemInput{Name: "n", Category: "c", Quantity: -1}},
		{"negative reorder point", CreateItemInput{Name: "n", Category: "c", ReorderPoint: -1}},
		{"negative price", CreateItemInput{Name: "n", Category: "c", UnitPrice: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.inventory.CreateItem(ctx, tt.in, f.actor)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateItemDerivesStatusAndTags(t *testing.T) {
	f := newFixture(t)
	item, err := f.inventory.CreateItem(context.Background(), CreateItemInput{
		Name: "Paper", Category: "office", Quantity: 3, ReorderPoint: 5,
		Tags: []string{"a", " a ", "", "b"},
	}, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if item.Status != model.StatusLowStock {
		t.Fatalf("expected low_stock, got %s", item.Status)
	}
	if len(item.Tags) != 2 {
		t.Fatalf("expected deduplicated tags, got %v", item.Tags)
	}
	if item.CreatedBy == nil || *item.CreatedBy != f.actor.UserID {
		t.Fatal("expected createdBy to be the actor")
	}
}

func TestListItemsPagination(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"delta", "alpha", "echo", "charlie", "bravo"} {
		f.createItem(t, name, 10, 1, 1)
	}

	page, err := f.inventory.ListItems(context.Background(), ListItemsQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.Page != 2 {
		t.Fatalf("unexpected page meta %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "charlie" || page.Items[1].Name != "delta" {
		t.Fatalf("unexpected page items %v", page.Items)
	}

	page, err = f.inventory.ListItems(context.Background(), ListItemsQuery{SortBy: "name", SortOrder: "desc"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Items[0].Name != "echo" || page.TotalPages != 1 {
		t.Fatalf("expected echo first on one page, got %s/%d", page.Items[0].Name, page.TotalPages)
	}
}

func TestNormalizeListQuery(t *testing.T) {
	q, err := NormalizeListQuery(ListItemsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if q.Page != 1 || q.Limit != DefaultPageSize || q.SortBy != "name" || q.SortOrder != "asc" {
		t.Fatalf("unexpected defaults %+v", q)
	}

	bad := []ListItemsQuery{
		{Limit: 101},
		{Limit: -1},
		{SortBy: "password"},
		{SortOrder: "sideways"},
		{Status: "gone"},
	}
	for _, q := range bad {
		if _, err := NormalizeListQuery(q); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%+v: expected validation error, got %v", q, err)
		}
	}
}

func TestUpdateItemRestrictedFieldsAndAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Tape", 8, 5, 2)

	reorder := 10
	name := "Duct tape"
	updated, err := f.inventory.UpdateItem(ctx, item.ID, UpdateItemInput{Name: &name, ReorderPoint: &reorder}, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != name || updated.Quantity != 8 {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Status != model.StatusLowStock {
		t.Fatalf("expected low_stock after raising reorder point, got %s", updated.Status)
	}
	if n := len(f.activeAlerts(t, item.ID)); n != 1 {
		t.Fatalf("expected alert after raising reorder point, got %d", n)
	}

	reorder = 2
	updated, err = f.inventory.UpdateItem(ctx, item.ID, UpdateItemInput{ReorderPoint: &reorder}, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.StatusInStock || len(f.activeAlerts(t, item.ID)) != 0 {
		t.Fatalf("expected in_stock and resolved alert, got %s", updated.Status)
	}

	if _, err := f.inventory.UpdateItem(ctx, uuid.New(), UpdateItemInput{Name: &name}, f.actor); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	blank := " "
	if _, err := f.inventory.UpdateItem(ctx, item.ID, UpdateItemInput{Name: &blank}, f.actor); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteItemGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	used := f.createItem(t, "Used", 5, 1, 1)
	if _, err := f.apply(DirectionOut, used.ID, 1); err != nil {
		t.Fatal(err)
	}
	err := f.inventory.DeleteItem(ctx, used.ID, f.actor)
	if !errors.Is(err, ErrHasTransactions) {
		t.Fatalf("expected has transactions, got %v", err)
	}
	if _, err := f.inventory.GetItem(ctx, used.ID); err != nil {
		t.Fatalf("guarded item must survive: %v", err)
	}

	fresh := f.createItem(t, "Fresh", 0, 3, 1)
	if _, err := f.alerts.CreateAlert(ctx, CreateAlertInput{ItemID: fresh.ID, Type: model.AlertOutOfStock, Message: "empty"}, f.actor); err != nil {
		t.Fatal(err)
	}
	if err := f.inventory.DeleteItem(ctx, fresh.ID, f.actor); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.inventory.GetItem(ctx, fresh.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected deleted item to be gone, got %v", err)
	}
	all, err := f.alerts.ListAlerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range all {
		if a.ItemID == fresh.ID {
			t.Fatal("expected alerts of deleted item to be removed")
		}
	}

	if err := f.inventory.DeleteItem(ctx, fresh.ID, f.actor); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Full", 10, 1, 1)
	empty := f.createItem(t, "Empty", 0, 1, 1)

	items, err := f.inventory.ListOutOfStock(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != empty.ID {
		t.Fatalf("expected only the empty item, got %v", items)
	}
}
