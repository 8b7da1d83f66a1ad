package repository

import (
	"context"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

// TaskFilters holds filters for listing tasks
type TaskFilters struct {
	Status    *domain.TaskStatus
	Priority  *domain.TaskPriority
	DealID    *uuid.UUID
	ContactID *uuid.UUID
	DueBefore *time.Time
}

// List returns tasks with filters and pagination, ordered by due date
// with undated tasks last.
func (r *TaskRepository) List(ctx context.Context, page, pageSize int, filters *TaskFilters) ([]domain.Task, int64, error) {
	var tasks []domain.Task
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Task{})

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.Priority != nil {
			query = query.Where("priority = ?", *filters.Priority)
		}
		if filters.DealID != nil {
			query = query.Where("deal_id = ?", *filters.DealID)
		}
		if filters.ContactID != nil {
			query = query.Where("contact_id = ?", *filters.ContactID)
		}
		if filters.DueBefore != nil {
			query = query.Where("due_date IS NOT NULL AND due_date < ?", *filters.DueBefore)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("due_date IS NULL, due_date ASC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&tasks).Error

	return tasks, total, err
}

// CountOverdue returns the number of open tasks past their due date
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.TaskStatusOpen, now).
		Count(&count).Error
	return count, err
}
