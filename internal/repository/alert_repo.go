package repository

import (
	"context"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	alert.EnsureID()
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error)
}

func (r *alertRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	if err := r.db.WithContext(ctx).Preload("Item").First(&alert, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}

func (r *alertRepo) FindActiveByItem(ctx context.Context, itemID uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status = ?", itemID, model.AlertActive).
		First(&alert).Error
	if err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter) ([]model.Alert, error) {
	query := r.db.WithContext(ctx).Preload("Item")
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var alerts []model.Alert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) Update(ctx context.Context, alert *model.Alert) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(alert).Error)
}

func (r *alertRepo) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&model.Alert{}).Error
}
