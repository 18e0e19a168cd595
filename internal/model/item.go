package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	StatusInStock    ItemStatus = "in_stock"
	StatusLowStock   ItemStatus = "low_stock"
	StatusOutOfStock ItemStatus = "out_of_stock"
)

// Item is an inventory item. Quantity only changes through stock mutations.
type Item struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Category      string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Quantity      int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	MinQuantity   int             `gorm:"not null;default:0" json:"minQuantity"`
	ReorderPoint  int             `gorm:"not null;default:0" json:"reorderPoint"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unitPrice"`
	Status        ItemStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	Tags          pq.StringArray  `gorm:"type:text[]" json:"tags"`
	Location      string          `gorm:"type:varchar(255)" json:"location,omitempty"`
	Supplier      string          `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	LastRestocked *time.Time      `json:"lastRestocked,omitempty"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updatedBy,omitempty"`
}

// DeriveStatus maps a quantity and reorder point to the item status.
func DeriveStatus(quantity, reorderPoint int) ItemStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= reorderPoint:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// RefreshStatus recomputes Status from the current quantity.
func (i *Item) RefreshStatus() {
	i.Status = DeriveStatus(i.Quantity, i.ReorderPoint)
}

// Value is the on-hand stock value.
func (i *Item) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone returns a copy that shares no slices with i.
func (i Item) Clone() Item {
	if i.Tags != nil {
		i.Tags = append(pq.StringArray(nil), i.Tags...)
	}
	if i.LastRestocked != nil {
		t := *i.LastRestocked
		i.LastRestocked = &t
	}
	return i
}
