package repository

import (
	"context"
	"errors"
	"time"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned by every repository when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

type ItemFilter struct {
	Search   string
	Category string
	Status   model.ItemStatus
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int // 0 means no limit
}

type TransactionFilter struct {
	ItemID *uuid.UUID
	Type   model.TransactionType
	From   *time.Time
	To     *time.Time
}

type AlertFilter struct {
	ItemID *uuid.UUID
	Status model.AlertStatus
}

// QuantityTotals sums transaction quantities per direction.
type QuantityTotals struct {
	StockIn  int64
	StockOut int64
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// FindByIDForUpdate loads the item and locks it for the rest of the unit of work.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	// List returns matching transactions with Item and Creator loaded, newest first.
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	SumByItem(ctx context.Context, filter TransactionFilter) (map[uuid.UUID]QuantityTotals, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	FindActiveByItem(ctx context.Context, itemID uuid.UUID) (*model.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]model.Alert, error)
	Update(ctx context.Context, alert *model.Alert) error
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

// Repos bundles repositories bound to one store handle (a connection or an
// open transaction).
type Repos struct {
	Items        ItemRepository
	Transactions TransactionRepository
	Alerts       AlertRepository
	Users        UserRepository
}

// UnitOfWork runs fn with repositories whose writes commit together when fn
// returns nil and roll back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repos) error) error
}

// Store is the persistence store: plain repositories for reads plus a unit of
// work for multi-entity writes.
type Store interface {
	UnitOfWork
	Repos() Repos
}
