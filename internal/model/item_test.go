package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reorderPoint int
		want         ItemStatus
	}{
		{"zero is out of stock", 0, 10, StatusOutOfStock},
		{"negative is out of stock", -1, 0, StatusOutOfStock},
		{"zero with zero reorder point", 0, 0, StatusOutOfStock},
		{"at reorder point is low", 10, 10, StatusLowStock},
		{"below reorder point is low", 1, 10, StatusLowStock},
		{"above reorder point", 11, 10, StatusInStock},
		{"positive with zero reorder point", 1, 0, StatusInStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.quantity, tt.reorderPoint); got != tt.want {
				t.Fatalf("DeriveStatus(%d, %d) = %s, want %s", tt.quantity, tt.reorderPoint, got, tt.want)
			}
		})
	}
}

func TestAlertTypeFor(t *testing.T) {
	if got := AlertTypeFor(0); got != AlertOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", got)
	}
	if got := AlertTypeFor(3); got != AlertLowStock {
		t.Fatalf("expected low_stock, got %s", got)
	}
}

func TestItemValueAndClone(t *testing.T) {
	item := Item{Quantity: 4, UnitPrice: decimal.RequireFromString("2.50"), Tags: []string{"a"}}
	if !item.Value().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected value 10, got %s", item.Value())
	}

	clone := item.Clone()
	clone.Tags[0] = "b"
	if item.Tags[0] != "a" {
		t.Fatal("clone shares tags with original")
	}
}

func TestUserPassword(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cret!pass"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !u.CheckPassword("s3cret!pass") {
		t.Fatal("expected password to match")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("expected wrong password to fail")
	}
}
