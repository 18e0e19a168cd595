package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-tracker/internal/auth"
	"go-inventory-tracker/internal/event"
	"go-inventory-tracker/internal/lock"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CreateAlertInput struct {
	ItemID  uuid.UUID       `json:"itemId" validate:"uuid_required"`
	Type    model.AlertType `json:"type" validate:"required,oneof=low_stock out_of_stock"`
	Message string          `json:"message" validate:"required"`
}

// ActiveAlert is an active alert with the item fields the dashboard shows.
type ActiveAlert struct {
	model.Alert
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription,omitempty"`
	ReorderPoint    int    `json:"reorderPoint"`
	Quantity        int    `json:"quantity"`
}

type AlertService interface {
	CreateAlert(ctx context.Context, in CreateAlertInput, actor auth.Principal) (*model.Alert, error)
	ListAlerts(ctx context.Context) ([]model.Alert, error)
	ListActive(ctx context.Context) ([]ActiveAlert, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, actor auth.Principal) (*model.Alert, error)
}

type alertService struct {
	store     repository.Store
	locker    lock.Locker
	publisher event.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewAlertService(store repository.Store, locker lock.Locker, publisher event.Publisher, log logrus.FieldLogger) AlertService {
	return &alertService{
		store:     store,
		locker:    locker,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *alertService) CreateAlert(ctx context.Context, in CreateAlertInput, actor auth.Principal) (*model.Alert, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validate(in); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, in.ItemID.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer unlock()

	var created model.Alert
	err = s.store.Do(ctx, func(r repository.Repos) error {
		if _, err := r.Items.FindByIDForUpdate(ctx, in.ItemID); err != nil {
			return notFound(err, ErrItemNotFound)
		}
		if _, err := r.Alerts.FindActiveByItem(ctx, in.ItemID); err == nil {
			return ErrAlertExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		alert := &model.Alert{
			ItemID:    in.ItemID,
			Type:      in.Type,
			Message:   in.Message,
			Status:    model.AlertActive,
			CreatedBy: actor.UserID,
			CreatedAt: s.now(),
		}
		if err := r.Alerts.Create(ctx, alert); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlertExists
			}
			return err
		}
		created = *alert
		return nil
	})
	if err != nil {
		return nil, passOrWrap("create alert", err)
	}

	publish(ctx, s.publisher, s.log, event.Event{
		Type:    event.AlertRaised,
		Alert:   &created,
		User:    &event.Actor{ID: actor.UserID, Username: actor.Username},
		Message: created.Message,
	})
	return &created, nil
}

func (s *alertService) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	alerts, err := s.store.Repos().Alerts.List(ctx, repository.AlertFilter{})
	if err != nil {
		return nil, internal("list alerts", err)
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	return alerts, nil
}

func (s *alertService) ListActive(ctx context.Context) ([]ActiveAlert, error) {
	alerts, err := s.store.Repos().Alerts.List(ctx, repository.AlertFilter{Status: model.AlertActive})
	if err != nil {
		return nil, internal("list active alerts", err)
	}

	out := make([]ActiveAlert, 0, len(alerts))
	for _, a := range alerts {
		row := ActiveAlert{Alert: a}
		if a.Item != nil {
			row.ItemName = a.Item.Name
			row.ItemDescription = a.Item.Description
			row.ReorderPoint = a.Item.ReorderPoint
			row.Quantity = a.Item.Quantity
		}
		row.Alert.Item = nil
		out = append(out, row)
	}
	return out, nil
}

func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	alert, err := s.store.Repos().Alerts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAlertNotFound)
	}
	return alert, nil
}

// ResolveAlert marks the alert resolved. Resolving twice returns the alert as is.
func (s *alertService) ResolveAlert(ctx context.Context, id uuid.UUID, actor auth.Principal) (*model.Alert, error) {
	var (
		resolved model.Alert
		changed  bool
	)
	err := s.store.Do(ctx, func(r repository.Repos) error {
		alert, err := r.Alerts.FindByID(ctx, id)
		if err != nil {
			return notFound(err, ErrAlertNotFound)
		}
		if alert.Status == model.AlertResolved {
			resolved = *alert
			return nil
		}

		now := s.now()
		alert.Status = model.AlertResolved
		alert.ResolvedAt = &now
		if err := r.Alerts.Update(ctx, alert); err != nil {
			return err
		}
		resolved = *alert
		changed = true
		return nil
	})
	if err != nil {
		return nil, passOrWrap("resolve alert", err)
	}

	if changed {
		msg := "alert resolved"
		if resolved.Item != nil {
			msg = fmt.Sprintf("alert for '%s' resolved", resolved.Item.Name)
		}
		publish(ctx, s.publisher, s.log, event.Event{
			Type:    event.AlertResolved,
			Alert:   &resolved,
			User:    &event.Actor{ID: actor.UserID, Username: actor.Username},
			Message: msg,
		})
	}
	return &resolved, nil
}
