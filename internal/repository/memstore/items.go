package memstore

import (
	"context"
	"sort"
	"strings"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

type itemRepo struct{ *base }

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.with(ctx, func(st *state) error {
		item.EnsureID()
		if _, exists := st.items[item.ID]; exists {
			return repository.ErrDuplicate
		}
		now := r.now()
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var found model.Item
	err := r.with(ctx, func(st *state) error {
		item, ok := st.items[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = item.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// FindByIDForUpdate needs no row lock: a unit of work already owns the store.
func (r *itemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *itemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]model.Item, int64, error) {
	var (
		items []model.Item
		total int64
	)
	err := r.with(ctx, func(st *state) error {
		search := strings.ToLower(filter.Search)
		for _, item := range st.items {
			if search != "" &&
				!strings.Contains(strings.ToLower(item.Name), search) &&
				!strings.Contains(strings.ToLower(item.Description), search) {
				continue
			}
			if filter.Category != "" && item.Category != filter.Category {
				continue
			}
			if filter.Status != "" && item.Status != filter.Status {
				continue
			}
			items = append(items, item.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	less := itemLess(filter.SortBy)
	sort.SliceStable(items, func(i, j int) bool {
		if filter.SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})

	total = int64(len(items))
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []model.Item{}, total, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, total, nil
}

func itemLess(field string) func(a, b model.Item) bool {
	tieBreak := func(a, b model.Item) bool { return a.ID.String() < b.ID.String() }
	switch field {
	case "category":
		return func(a, b model.Item) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return tieBreak(a, b)
		}
	case "quantity":
		return func(a, b model.Item) bool {
			if a.Quantity != b.Quantity {
				return a.Quantity < b.Quantity
			}
			return tieBreak(a, b)
		}
	case "unitPrice":
		return func(a, b model.Item) bool {
			if c := a.UnitPrice.Cmp(b.UnitPrice); c != 0 {
				return c < 0
			}
			return tieBreak(a, b)
		}
	case "status":
		return func(a, b model.Item) bool {
			if a.Status != b.Status {
				return a.Status < b.Status
			}
			return tieBreak(a, b)
		}
	case "createdAt":
		return func(a, b model.Item) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return tieBreak(a, b)
		}
	case "updatedAt":
		return func(a, b model.Item) bool {
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
			return tieBreak(a, b)
		}
	default:
		return func(a, b model.Item) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return tieBreak(a, b)
		}
	}
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return repository.ErrNotFound
		}
		item.UpdatedAt = r.now()
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(ctx, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}
