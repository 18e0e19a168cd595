package repository

import (
	"context"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	tx.EnsureID()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error)
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).Preload("Item").Preload("Creator").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) scoped(ctx context.Context, filter TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	return query
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.scoped(ctx, filter).
		Preload("Item").Preload("Creator").
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

// SumByItem aggregates stock-in and stock-out quantities per item
func (r *transactionRepo) SumByItem(ctx context.Context, filter TransactionFilter) (map[uuid.UUID]QuantityTotals, error) {
	rows, err := r.scoped(ctx, filter).
		Select(`
			item_id,
			COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) as stock_in,
			COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) as stock_out
		`, model.TxStockIn, model.TxStockOut).
		Group("item_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]QuantityTotals)
	for rows.Next() {
		var (
			itemID uuid.UUID
			t      QuantityTotals
		)
		if err := rows.Scan(&itemID, &t.StockIn, &t.StockOut); err != nil {
			return nil, err
		}
		totals[itemID] = t
	}
	return totals, rows.Err()
}
