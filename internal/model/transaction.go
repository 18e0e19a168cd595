package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxStockIn  TransactionType = "stock-in"
	TxStockOut TransactionType = "stock-out"
)

func (t TransactionType) Valid() bool {
	return t == TxStockIn || t == TxStockOut
}

// Transaction is an immutable record of one stock mutation.
type Transaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	Type       TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	Quantity   int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"createdBy"`
	TotalValue decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalValue"`
	CreatedAt  time.Time       `json:"createdAt"`

	// Relasi
	Item    *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (t *Transaction) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}
