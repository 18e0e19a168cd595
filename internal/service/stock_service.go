package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/event"
	"go-inventory-tracker/internal/lock"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// DirectionFor maps a transaction type to the engine direction.
func DirectionFor(t model.TransactionType) (Direction, error) {
	switch t {
	case model.TxStockIn:
		return DirectionIn, nil
	case model.TxStockOut:
		return DirectionOut, nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) transactionType() model.TransactionType {
	if d == DirectionIn {
		return model.TxStockIn
	}
	return model.TxStockOut
}

type StockChange struct {
	ItemID    uuid.UUID
	Direction Direction
	Quantity  int
	Notes     string
	Actor     auth.Principal
}

// AlertChange describes what the mutation did to the item's alert, if anything.
type AlertChange struct {
	Raised   *model.Alert `json:"raised,omitempty"`
	Resolved *model.Alert `json:"resolved,omitempty"`
}

type StockResult struct {
	Item        model.Item        `json:"item"`
	Transaction model.Transaction `json:"transaction"`
	Alert       AlertChange       `json:"alert"`
}

type StockService interface {
	ApplyStockChange(ctx context.Context, change StockChange) (*StockResult, error)
}

type stockService struct {
	store     repository.Store
	locker    lock.Locker
	publisher event.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewStockService(store repository.Store, locker lock.Locker, publisher event.Publisher, log logrus.FieldLogger) StockService {
	return &stockService{
		store:     store,
		locker:    locker,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// NextQuantity applies a change to the current quantity. Stock-out beyond the
// available quantity fails.
func NextQuantity(current int, dir Direction, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	switch dir {
	case DirectionIn:
		if qty > math.MaxInt-current {
			return 0, apperror.Validation("quantity would exceed the maximum stock level")
		}
		return current + qty, nil
	case DirectionOut:
		if current < qty {
			return 0, &apperror.Error{
				Kind:    apperror.KindInsufficientStock,
				Message: ErrInsufficientStock.Message,
				Err:     fmt.Errorf("available %d, requested %d", current, qty),
			}
		}
		return current - qty, nil
	default:
		return 0, ErrInvalidDirection
	}
}

type alertDecision int

const (
	alertKeep alertDecision = iota
	alertRaise
	alertResolve
)

// decideAlert returns what alert derivation must do for a quantity against the
// reorder point given whether an active alert exists.
func decideAlert(quantity, reorderPoint int, hasActive bool) alertDecision {
	switch {
	case quantity <= reorderPoint && !hasActive:
		return alertRaise
	case quantity > reorderPoint && hasActive:
		return alertResolve
	default:
		return alertKeep
	}
}

func alertMessage(item *model.Item) string {
	if item.Quantity <= 0 {
		return fmt.Sprintf("%s is out of stock", item.Name)
	}
	return fmt.Sprintf("%s is low on stock: %d left (reorder point %d)", item.Name, item.Quantity, item.ReorderPoint)
}

// deriveAlert raises or resolves the item's alert inside a unit of work.
func deriveAlert(ctx context.Context, r repository.Repos, item *model.Item, actor uuid.UUID, now time.Time) (AlertChange, error) {
	var change AlertChange

	active, err := r.Alerts.FindActiveByItem(ctx, item.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return change, err
	}
	hasActive := err == nil

	switch decideAlert(item.Quantity, item.ReorderPoint, hasActive) {
	case alertRaise:
		alert := &model.Alert{
			ItemID:    item.ID,
			Type:      model.AlertTypeFor(item.Quantity),
			Message:   alertMessage(item),
			Status:    model.AlertActive,
			CreatedBy: actor,
			CreatedAt: now,
		}
		if err := r.Alerts.Create(ctx, alert); err != nil {
			return change, err
		}
		change.Raised = alert
	case alertResolve:
		active.Status = model.AlertResolved
		active.ResolvedAt = &now
		if err := r.Alerts.Update(ctx, active); err != nil {
			return change, err
		}
		change.Resolved = active
	}
	return change, nil
}

func (s *stockService) ApplyStockChange(ctx context.Context, change StockChange) (*StockResult, error) {
	if change.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if change.Direction != DirectionIn && change.Direction != DirectionOut {
		return nil, ErrInvalidDirection
	}

	unlock, err := s.locker.Lock(ctx, change.ItemID.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer unlock()

	var result StockResult
	err = s.store.Do(ctx, func(r repository.Repos) error {
		item, err := r.Items.FindByIDForUpdate(ctx, change.ItemID)
		if err != nil {
			return notFound(err, ErrItemNotFound)
		}

		next, err := NextQuantity(item.Quantity, change.Direction, change.Quantity)
		if err != nil {
			return err
		}

		now := s.now()
		actor := change.Actor.UserID
		item.Quantity = next
		item.RefreshStatus()
		item.UpdatedBy = &actor
		if change.Direction == DirectionIn {
			item.LastRestocked = &now
		}
		if err := r.Items.Update(ctx, item); err != nil {
			return err
		}

		tx := &model.Transaction{
			ItemID:     item.ID,
			Type:       change.Direction.transactionType(),
			Quantity:   change.Quantity,
			Date:       now,
			Notes:      change.Notes,
			CreatedBy:  actor,
			TotalValue: item.UnitPrice.Mul(decimal.NewFromInt(int64(change.Quantity))),
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		alert, err := deriveAlert(ctx, r, item, actor, now)
		if err != nil {
			return err
		}

		result = StockResult{Item: *item, Transaction: *tx, Alert: alert}
		return nil
	})
	if err != nil {
		return nil, passOrWrap("apply stock change", err)
	}

	s.publishResult(ctx, change, &result)
	return &result, nil
}

func (s *stockService) publishResult(ctx context.Context, change StockChange, result *StockResult) {
	actor := &event.Actor{ID: change.Actor.UserID, Username: change.Actor.Username}
	action := event.ActionStockIn
	verb := "added"
	if change.Direction == DirectionOut {
		action = event.ActionStockOut
		verb = "removed"
	}

	item := result.Item
	tx := result.Transaction
	events := []event.Event{{
		Type:        event.StockUpdate,
		Action:      action,
		Item:        &item,
		Transaction: &tx,
		User:        actor,
		Message:     fmt.Sprintf("%s %s %d of '%s'", change.Actor.Username, verb, change.Quantity, item.Name),
	}}
	if a := result.Alert.Raised; a != nil {
		events = append(events, event.Event{Type: event.AlertRaised, Item: &item, Alert: a, User: actor, Message: a.Message})
	}
	if a := result.Alert.Resolved; a != nil {
		events = append(events, event.Event{
			Type: event.AlertResolved, Item: &item, Alert: a, User: actor,
			Message: fmt.Sprintf("alert for '%s' resolved", item.Name),
		})
	}
	publish(ctx, s.publisher, s.log, events...)
}

func lockError(err error) error {
	if errors.Is(err, lock.ErrBusy) {
		return apperror.Wrap(apperror.KindConflict, "item is being updated, please try again", err)
	}
	// The caller went away or timed out while queued behind another writer.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(apperror.KindConflict, "request cancelled while waiting for item", err)
	}
	return internal("lock item", err)
}

// publish delivers events after commit. Failures are logged only.
func publish(ctx context.Context, p event.Publisher, log logrus.FieldLogger, events ...event.Event) {
	if p == nil {
		return
	}
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"event":  e.Type,
				"action": e.Action,
			}).Warn("failed to publish event")
		}
	}
}
