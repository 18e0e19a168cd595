package model

import (
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
)

// Alert flags an item at or below its reorder point. The partial unique
// index keeps at most one active alert per item.
type Alert struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	ItemID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_alerts_active_item,unique,where:status = 'active'" json:"itemId"`
	Type       AlertType   `gorm:"type:varchar(20);not null" json:"type"`
	Message    string      `gorm:"type:text;not null" json:"message"`
	Status     AlertStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedBy  uuid.UUID   `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt  time.Time   `json:"createdAt"`
	ResolvedAt *time.Time  `json:"resolvedAt,omitempty"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (a *Alert) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

// AlertTypeFor picks the alert type for a quantity at or below the reorder point.
func AlertTypeFor(quantity int) AlertType {
	if quantity <= 0 {
		return AlertOutOfStock
	}
	return AlertLowStock
}
