package service

import (
	"context"

	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type CreateTransactionInput struct {
	ItemID   uuid.UUID             `json:"itemId" validate:"uuid_required"`
	Type     model.TransactionType `json:"type" validate:"required,oneof=stock-in stock-out"`
	Quantity int                   `json:"quantity" validate:"gt=0"`
	Notes    string                `json:"notes"`
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, in CreateTransactionInput, actor auth.Principal) (*StockResult, error)
	ListTransactions(ctx context.Context, itemID *uuid.UUID) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type transactionService struct {
	store repository.Store
	stock StockService
}

func NewTransactionService(store repository.Store, stock StockService) TransactionService {
	return &transactionService{store: store, stock: stock}
}

// CreateTransaction records a transaction through the stock engine so the
// item quantity, status and alerts move with it.
func (s *transactionService) CreateTransaction(ctx context.Context, in CreateTransactionInput, actor auth.Principal) (*StockResult, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	dir, err := DirectionFor(in.Type)
	if err != nil {
		return nil, err
	}
	return s.stock.ApplyStockChange(ctx, StockChange{
		ItemID:    in.ItemID,
		Direction: dir,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		Actor:     actor,
	})
}

func (s *transactionService) ListTransactions(ctx context.Context, itemID *uuid.UUID) ([]model.Transaction, error) {
	txs, err := s.store.Repos().Transactions.List(ctx, repository.TransactionFilter{ItemID: itemID})
	if err != nil {
		return nil, internal("list transactions", err)
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.store.Repos().Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return tx, nil
}
