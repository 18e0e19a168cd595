package service

import (
	"context"
	"fmt"
	"strings"
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

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type CreateItemInput struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Category     string          `json:"category" validate:"required,max=100"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	MinQuantity  int             `json:"minQuantity" validate:"gte=0"`
	ReorderPoint int             `json:"reorderPoint" validate:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Tags         []string        `json:"tags"`
	Location     string          `json:"location"`
	Supplier     string          `json:"supplier"`
}

// UpdateItemInput holds the editable metadata. Nil fields are left unchanged;
// quantity and status are not editable here.
type UpdateItemInput struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" validate:"omitempty,min=1,max=100"`
	MinQuantity  *int             `json:"minQuantity" validate:"omitempty,gte=0"`
	ReorderPoint *int             `json:"reorderPoint" validate:"omitempty,gte=0"`
	UnitPrice    *decimal.Decimal `json:"unitPrice"`
	Location     *string          `json:"location"`
	Supplier     *string          `json:"supplier"`
	Tags         []string         `json:"tags"`
}

// UpdatableItemFields are the JSON keys UpdateItemInput accepts.
var UpdatableItemFields = map[string]bool{
	"name": true, "description": true, "category": true,
	"minQuantity": true, "reorderPoint": true, "unitPrice": true,
	"location": true, "supplier": true, "tags": true,
}

type ListItemsQuery struct {
	Search    string
	Category  string
	Status    model.ItemStatus
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type ItemPage struct {
	Items      []model.Item `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

type InventoryService interface {
	CreateItem(ctx context.Context, in CreateItemInput, actor auth.Principal) (*model.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListItems(ctx context.Context, q ListItemsQuery) (*ItemPage, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput, actor auth.Principal) (*model.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID, actor auth.Principal) error
	ListOutOfStock(ctx context.Context) ([]model.Item, error)
}

type inventoryService struct {
	store     repository.Store
	locker    lock.Locker
	publisher event.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewInventoryService(store repository.Store, locker lock.Locker, publisher event.Publisher, log logrus.FieldLogger) InventoryService {
	return &inventoryService{
		store:     store,
		locker:    locker,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *inventoryService) CreateItem(ctx context.Context, in CreateItemInput, actor auth.Principal) (*model.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperror.Validation("unitPrice must be greater than or equal to 0")
	}

	item := &model.Item{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Quantity:     in.Quantity,
		MinQuantity:  in.MinQuantity,
		ReorderPoint: in.ReorderPoint,
		UnitPrice:    in.UnitPrice,
		Tags:         cleanTags(in.Tags),
		Location:     in.Location,
		Supplier:     in.Supplier,
		CreatedBy:    &actor.UserID,
		UpdatedBy:    &actor.UserID,
	}
	item.RefreshStatus()

	if err := s.store.Repos().Items.Create(ctx, item); err != nil {
		return nil, internal("create item", err)
	}

	publish(ctx, s.publisher, s.log, event.Event{
		Type:    event.StockUpdate,
		Action:  event.ActionItemCreated,
		Item:    item,
		User:    &event.Actor{ID: actor.UserID, Username: actor.Username},
		Message: fmt.Sprintf("%s created item '%s'", actor.Username, item.Name),
	})
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, err := s.store.Repos().Items.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return item, nil
}

// NormalizeListQuery applies paging defaults and checks sort options.
func NormalizeListQuery(q ListItemsQuery) (ListItemsQuery, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit < 1 || q.Limit > MaxPageSize {
		return q, apperror.Validation("limit must be between 1 and %d", MaxPageSize)
	}
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	if !repository.IsSortableItemField(q.SortBy) {
		return q, apperror.Validation("cannot sort by %q", q.SortBy)
	}
	switch q.SortOrder {
	case "":
		q.SortOrder = "asc"
	case "asc", "desc":
	default:
		return q, apperror.Validation("sortOrder must be asc or desc")
	}
	switch q.Status {
	case "", model.StatusInStock, model.StatusLowStock, model.StatusOutOfStock:
	default:
		return q, apperror.Validation("unknown status %q", q.Status)
	}
	return q, nil
}

func (s *inventoryService) ListItems(ctx context.Context, q ListItemsQuery) (*ItemPage, error) {
	q, err := NormalizeListQuery(q)
	if err != nil {
		return nil, err
	}

	items, total, err := s.store.Repos().Items.List(ctx, repository.ItemFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: q.Category,
		Status:   q.Status,
		SortBy:   q.SortBy,
		SortDesc: q.SortOrder == "desc",
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, internal("list items", err)
	}
	if items == nil {
		items = []model.Item{}
	}

	return &ItemPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func applyItemUpdate(item *model.Item, in UpdateItemInput) error {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
		if item.Name == "" {
			return apperror.Validation("name is required")
		}
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
		if item.Category == "" {
			return apperror.Validation("category is required")
		}
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
	if in.ReorderPoint != nil {
		item.ReorderPoint = *in.ReorderPoint
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return apperror.Validation("unitPrice must be greater than or equal to 0")
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Supplier != nil {
		item.Supplier = *in.Supplier
	}
	if in.Tags != nil {
		item.Tags = cleanTags(in.Tags)
	}
	return nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput, actor auth.Principal) (*model.Item, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer unlock()

	var (
		updated model.Item
		alert   AlertChange
	)
	err = s.store.Do(ctx, func(r repository.Repos) error {
		item, err := r.Items.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrItemNotFound)
		}
		if err := applyItemUpdate(item, in); err != nil {
			return err
		}
		item.RefreshStatus()
		item.UpdatedBy = &actor.UserID
		if err := r.Items.Update(ctx, item); err != nil {
			return err
		}

		// a new reorder point can cross the current quantity
		alert, err = deriveAlert(ctx, r, item, actor.UserID, s.now())
		if err != nil {
			return err
		}
		updated = *item
		return nil
	})
	if err != nil {
		return nil, passOrWrap("update item", err)
	}

	user := &event.Actor{ID: actor.UserID, Username: actor.Username}
	events := []event.Event{{
		Type:    event.StockUpdate,
		Action:  event.ActionItemUpdated,
		Item:    &updated,
		User:    user,
		Message: fmt.Sprintf("%s updated item '%s'", actor.Username, updated.Name),
	}}
	if alert.Raised != nil {
		events = append(events, event.Event{Type: event.AlertRaised, Item: &updated, Alert: alert.Raised, User: user, Message: alert.Raised.Message})
	}
	if alert.Resolved != nil {
		events = append(events, event.Event{
			Type: event.AlertResolved, Item: &updated, Alert: alert.Resolved, User: user,
			Message: fmt.Sprintf("alert for '%s' resolved", updated.Name),
		})
	}
	publish(ctx, s.publisher, s.log, events...)
	return &updated, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id uuid.UUID, actor auth.Principal) error {
	unlock, err := s.locker.Lock(ctx, id.String())
	if err != nil {
		return lockError(err)
	}
	defer unlock()

	var deleted model.Item
	err = s.store.Do(ctx, func(r repository.Repos) error {
		item, err := r.Items.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrItemNotFound)
		}

		count, err := r.Transactions.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrHasTransactions
		}

		if err := r.Alerts.DeleteByItem(ctx, id); err != nil {
			return err
		}
		if err := r.Items.Delete(ctx, id); err != nil {
			return notFound(err, ErrItemNotFound)
		}
		deleted = *item
		return nil
	})
	if err != nil {
		return passOrWrap("delete item", err)
	}

	publish(ctx, s.publisher, s.log, event.Event{
		Type:    event.StockUpdate,
		Action:  event.ActionItemDeleted,
		Item:    &deleted,
		User:    &event.Actor{ID: actor.UserID, Username: actor.Username},
		Message: fmt.Sprintf("%s deleted item '%s'", actor.Username, deleted.Name),
	})
	return nil
}

func (s *inventoryService) ListOutOfStock(ctx context.Context) ([]model.Item, error) {
	items, _, err := s.store.Repos().Items.List(ctx, repository.ItemFilter{Status: model.StatusOutOfStock})
	if err != nil {
		return nil, internal("list out of stock", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}
