package service

import (
	"context"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultMovementDays = 7
	MaxMovementDays     = 365
)

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int64  `json:"inbound"`
	Outbound int64  `json:"outbound"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalItems      int64           `json:"total_items"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	ActiveAlerts    int64           `json:"active_alerts"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	store repository.Store
	now   func() time.Time
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store, now: time.Now}
}

// GetStockMovement returns one entry per day for the last days days, oldest
// first, including days without movement.
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error) {
	if days == 0 {
		days = DefaultMovementDays
	}
	if days < 1 || days > MaxMovementDays {
		return nil, apperror.Validation("days must be between 1 and %d", MaxMovementDays)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := today.AddDate(0, 0, -(days - 1))

	txs, err := s.store.Repos().Transactions.List(ctx, repository.TransactionFilter{From: &startDate, To: &now})
	if err != nil {
		return nil, internal("stock movement", err)
	}

	results := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := range results {
		date := startDate.AddDate(0, 0, i).Format(time.DateOnly)
		results[i].Date = date
		index[date] = i
	}
	for _, tx := range txs {
		i, ok := index[tx.Date.UTC().Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch tx.Type {
		case model.TxStockIn:
			results[i].Inbound += int64(tx.Quantity)
		case model.TxStockOut:
			results[i].Outbound += int64(tx.Quantity)
		}
	}
	return results, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	repos := s.store.Repos()

	items, total, err := repos.Items.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, internal("dashboard items", err)
	}
	alerts, err := repos.Alerts.List(ctx, repository.AlertFilter{Status: model.AlertActive})
	if err != nil {
		return nil, internal("dashboard alerts", err)
	}

	stats := DashboardStats{
		TotalItems:     total,
		ActiveAlerts:   int64(len(alerts)),
		TotalValuation: decimal.Zero,
	}
	for i := range items {
		switch items[i].Status {
		case model.StatusLowStock:
			stats.LowStockCount++
		case model.StatusOutOfStock:
			stats.OutOfStockCount++
		}
		stats.TotalValuation = stats.TotalValuation.Add(items[i].Value())
	}
	return &stats, nil
}
