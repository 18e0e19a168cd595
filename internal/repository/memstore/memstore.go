// Package memstore is an in-process repository.Store. A unit of work holds the
// store lock for its whole duration and restores a snapshot when it fails.
package memstore

import (
	"context"
	"sync"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type state struct {
	items  map[uuid.UUID]model.Item
	txs    []model.Transaction
	alerts map[uuid.UUID]model.Alert
	users  map[uuid.UUID]model.User
}

func newState() *state {
	return &state{
		items:  make(map[uuid.UUID]model.Item),
		alerts: make(map[uuid.UUID]model.Alert),
		users:  make(map[uuid.UUID]model.User),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, item := range s.items {
		c.items[id] = item.Clone()
	}
	c.txs = append([]model.Transaction(nil), s.txs...)
	for id, a := range s.alerts {
		c.alerts[id] = a
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

func New() *Store {
	return &Store{data: newState(), now: time.Now}
}

func (s *Store) Repos() repository.Repos {
	return s.repos(true)
}

func (s *Store) Do(ctx context.Context, fn func(r repository.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(s.repos(false))
}

func (s *Store) repos(locking bool) repository.Repos {
	b := &base{store: s, locking: locking}
	return repository.Repos{
		Items:        &itemRepo{b},
		Transactions: &transactionRepo{b},
		Alerts:       &alertRepo{b},
		Users:        &userRepo{b},
	}
}

// base gives each repository access to the current state. Outside a unit of
// work every call takes the store lock itself.
type base struct {
	store   *Store
	locking bool
}

func (b *base) with(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.locking {
		b.store.mu.Lock()
		defer b.store.mu.Unlock()
	}
	return fn(b.store.data)
}

func (b *base) now() time.Time {
	return b.store.now()
}
