package memstore

import (
	"context"
	"fmt"
	"sort"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type transactionRepo struct{ *base }

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.items[tx.ItemID]; !ok {
			return fmt.Errorf("transaction references unknown item %s", tx.ItemID)
		}
		tx.EnsureID()
		now := r.now()
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		if tx.Date.IsZero() {
			tx.Date = now
		}
		stored := *tx
		stored.Item, stored.Creator = nil, nil
		st.txs = append(st.txs, stored)
		return nil
	})
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var found model.Transaction
	err := r.with(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if tx.ID == id {
				found = populate(st, tx)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func matches(tx model.Transaction, filter repository.TransactionFilter) bool {
	if filter.ItemID != nil && tx.ItemID != *filter.ItemID {
		return false
	}
	if filter.Type != "" && tx.Type != filter.Type {
		return false
	}
	if filter.From != nil && tx.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && tx.Date.After(*filter.To) {
		return false
	}
	return true
}

func populate(st *state, tx model.Transaction) model.Transaction {
	if item, ok := st.items[tx.ItemID]; ok {
		c := item.Clone()
		tx.Item = &c
	}
	if user, ok := st.users[tx.CreatedBy]; ok {
		u := user
		tx.Creator = &u
	}
	return tx
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	var out []model.Transaction
	err := r.with(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if matches(tx, filter) {
				out = append(out, populate(st, tx))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// txs are kept in insertion order, so reversing before a stable sort
	// puts the most recent insert first among equal dates
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *transactionRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.with(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if tx.ItemID == itemID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *transactionRepo) SumByItem(ctx context.Context, filter repository.TransactionFilter) (map[uuid.UUID]repository.QuantityTotals, error) {
	totals := make(map[uuid.UUID]repository.QuantityTotals)
	err := r.with(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if !matches(tx, filter) {
				continue
			}
			t := totals[tx.ItemID]
			switch tx.Type {
			case model.TxStockIn:
				t.StockIn += int64(tx.Quantity)
			case model.TxStockOut:
				t.StockOut += int64(tx.Quantity)
			}
			totals[tx.ItemID] = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}
