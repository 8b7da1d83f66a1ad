package repository

import (
	"context"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ActivityFilters holds filters for the activity feed
type ActivityFilters struct {
	EntityType string
	EntityID   *uuid.UUID
	Type       *domain.ActivityType
}

// List returns activity feed entries, newest first
func (r *ActivityRepository) List(ctx context.Context, page, pageSize int, filters *ActivityFilters) ([]domain.Activity, int64, error) {
	var activities []domain.Activity
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Activity{})

	if filters != nil {
		if filters.EntityType != "" {
			query = query.Where("entity_type = ?", filters.EntityType)
		}
		if filters.EntityID != nil {
			query = query.Where("entity_id = ?", *filters.EntityID)
		}
		if filters.Type != nil {
			query = query.Where("type = ?", *filters.Type)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("occurred_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&activities).Error

	return activities, total, err
}
