// Package event delivers stock and alert changes to realtime subscribers.
package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
)

type Type string

const (
	StockUpdate   Type = "stock_update"
	AlertRaised   Type = "alert_raised"
	AlertResolved Type = "alert_resolved"
)

// Actions carried by stock_update events.
const (
	ActionItemCreated = "item_created"
	ActionItemUpdated = "item_updated"
	ActionItemDeleted = "item_deleted"
	ActionStockIn     = "stock_in"
	ActionStockOut    = "stock_out"
)

type Actor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type Event struct {
	ID          uuid.UUID          `json:"id"`
	Type        Type               `json:"type"`
	Action      string             `json:"action,omitempty"`
	Item        *model.Item        `json:"item,omitempty"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
	Alert       *model.Alert       `json:"alert,omitempty"`
	User        *Actor             `json:"user,omitempty"`
	Message     string             `json:"message"`
	Timestamp   time.Time          `json:"timestamp"`
}

// Stamp fills in ID and Timestamp when unset.
func (e *Event) Stamp() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors. One failing
// sink does not stop the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	e.Stamp()
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]Type, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
