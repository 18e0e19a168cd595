package service

import (
	"context"
	"errors"
	"testing"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
)

func TestCreateTransactionGoesThroughEngine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "Screws", 4, 2, 1)

	res, err := f.txs.CreateTransaction(ctx, CreateTransactionInput{ItemID: item.ID, Type: model.TxStockOut, Quantity: 3, Notes: "job 12"}, f.actor)
	if err != nil {
		t.Fatal(err)
	}
	if res.Item.Quantity != 1 || res.Item.Status != model.StatusLowStock {
		t.Fatalf("expected item updated by the engine, got %d %s", res.Item.Quantity, res.Item.Status)
	}
	if res.Alert.Raised == nil {
		t.Fatal("expected alert derivation on direct transaction")
	}

	_, err = f.txs.CreateTransaction(ctx, CreateTransactionInput{ItemID: item.ID, Type: model.TxStockOut, Quantity: 5}, f.actor)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := f.txs.CreateTransaction(ctx, CreateTransactionInput{ItemID: item.ID, Type: "transfer", Quantity: 1}, f.actor); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.txs.CreateTransaction(ctx, CreateTransactionInput{ItemID: item.ID, Type: model.TxStockIn}, f.actor); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}

	got, err := f.txs.GetTransaction(ctx, res.Transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes != "job 12" || got.Item == nil || got.Creator == nil || got.Creator.Username != f.actor.Username {
		t.Fatalf("unexpected transaction %+v", got)
	}
	if _, err := f.txs.GetTransaction(ctx, uuid.New()); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createItem(t, "A", 10, 1, 1)
	b := f.createItem(t, "B", 10, 1, 1)

	for _, id := range []uuid.UUID{a.ID, b.ID, a.ID} {
		if _, err := f.apply(DirectionOut, id, 1); err != nil {
			t.Fatal(err)
		}
	}

	all, err := f.txs.ListTransactions(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Fatal("transactions not sorted newest first")
		}
	}

	onlyA, err := f.txs.ListTransactions(ctx, &a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 2 {
		t.Fatalf("expected 2 transactions for A, got %d", len(onlyA))
	}
}
