package memstore

import (
	"context"
	"fmt"
	"sort"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type alertRepo struct{ *base }

// activeConflict mirrors the partial unique index on active alerts.
func activeConflict(st *state, alert *model.Alert) bool {
	if alert.Status != model.AlertActive {
		return false
	}
	for id, existing := range st.alerts {
		if id != alert.ID && existing.ItemID == alert.ItemID && existing.Status == model.AlertActive {
			return true
		}
	}
	return false
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.items[alert.ItemID]; !ok {
			return fmt.Errorf("alert references unknown item %s", alert.ItemID)
		}
		alert.EnsureID()
		if alert.Status == "" {
			alert.Status = model.AlertActive
		}
		if activeConflict(st, alert) {
			return repository.ErrDuplicate
		}
		if alert.CreatedAt.IsZero() {
			alert.CreatedAt = r.now()
		}
		stored := *alert
		stored.Item = nil
		st.alerts[alert.ID] = stored
		return nil
	})
}

func withItem(st *state, a model.Alert) model.Alert {
	if item, ok := st.items[a.ItemID]; ok {
		c := item.Clone()
		a.Item = &c
	}
	return a
}

func (r *alertRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var found model.Alert
	err := r.with(ctx, func(st *state) error {
		a, ok := st.alerts[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = withItem(st, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *alertRepo) FindActiveByItem(ctx context.Context, itemID uuid.UUID) (*model.Alert, error) {
	var found *model.Alert
	err := r.with(ctx, func(st *state) error {
		for _, a := range st.alerts {
			if a.ItemID == itemID && a.Status == model.AlertActive {
				a := a
				found = &a
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *alertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]model.Alert, error) {
	var out []model.Alert
	err := r.with(ctx, func(st *state) error {
		for _, a := range st.alerts {
			if filter.ItemID != nil && a.ItemID != *filter.ItemID {
				continue
			}
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			out = append(out, withItem(st, a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *alertRepo) Update(ctx context.Context, alert *model.Alert) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.alerts[alert.ID]; !ok {
			return repository.ErrNotFound
		}
		if activeConflict(st, alert) {
			return repository.ErrDuplicate
		}
		stored := *alert
		stored.Item = nil
		st.alerts[alert.ID] = stored
		return nil
	})
}

func (r *alertRepo) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.with(ctx, func(st *state) error {
		for id, a := range st.alerts {
			if a.ItemID == itemID {
				delete(st.alerts, id)
			}
		}
		return nil
	})
}
