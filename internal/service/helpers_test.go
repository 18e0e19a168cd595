package service

import (
	"context"
	"io"
	"testing"
	"time"

	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/event"
	"go-inventory-tracker/internal/lock"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository/memstore"
	"go-inventory-tracker/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fixture struct {
	store     *memstore.Store
	events    *event.Recorder
	stock     StockService
	inventory InventoryService
	alerts    AlertService
	txs       TransactionService
	reports   ReportService
	dashboard DashboardService
	auth      AuthService
	users     UserService
	actor     auth.Principal
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	locker := lock.NewLocal()
	events := &event.Recorder{}
	log := quietLogger()
	tokens := jwt.NewManager("test-secret", time.Hour)

	actor := auth.Principal{UserID: uuid.New(), Username: "tester", Role: model.RoleAdmin}
	creator := &model.User{Username: actor.Username, Email: "tester@example.com", Role: model.RoleAdmin}
	creator.ID = actor.UserID
	if err := store.Repos().Users.Create(context.Background(), creator); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	stock := NewStockService(store, locker, events, log)
	return &fixture{
		store:     store,
		events:    events,
		stock:     stock,
		inventory: NewInventoryService(store, locker, events, log),
		alerts:    NewAlertService(store, locker, events, log),
		txs:       NewTransactionService(store, stock),
		reports:   NewReportService(store),
		dashboard: NewDashboardService(store),
		auth:      NewAuthService(store.Repos().Users, tokens, log),
		users:     NewUserService(store.Repos().Users, tokens),
		actor:     actor,
	}
}

func (f *fixture) createItem(t *testing.T, name string, quantity, reorderPoint int, unitPrice int64) *model.Item {
	t.Helper()
	item, err := f.inventory.CreateItem(context.Background(), CreateItemInput{
		Name:         name,
		Category:     "general",
		Quantity:     quantity,
		ReorderPoint: reorderPoint,
		UnitPrice:    decimal.NewFromInt(unitPrice),
	}, f.actor)
	if err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return item
}

func (f *fixture) apply(dir Direction, itemID uuid.UUID, qty int) (*StockResult, error) {
	return f.stock.ApplyStockChange(context.Background(), StockChange{
		ItemID:    itemID,
		Direction: dir,
		Quantity:  qty,
		Actor:     f.actor,
	})
}

func (f *fixture) activeAlerts(t *testing.T, itemID uuid.UUID) []model.Alert {
	t.Helper()
	all, err := f.alerts.ListAlerts(context.Background())
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	var active []model.Alert
	for _, a := range all {
		if a.ItemID == itemID && a.Status == model.AlertActive {
			active = append(active, a)
		}
	}
	return active
}
