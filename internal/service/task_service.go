package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/mapper"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	taskRepo     *repository.TaskRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.TaskDTO, error) {
	priority := req.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      domain.TaskStatusOpen,
		DealID:      req.DealID,
		ContactID:   req.ContactID,
	}

	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dueDate", ErrInvalidInput)
		}
		task.DueDate = &parsed
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeCreated,
		fmt.Sprintf("Task '%s' was created", task.Title), "task", task.ID)

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) List(ctx context.Context, page, pageSize int, filters *repository.TaskFilters) ([]domain.TaskDTO, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = mapper.ToTaskDTO(&task)
	}
	return dtos, total, nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = req.Title
	task.Description = req.Description
	if req.Priority != "" {
		task.Priority = req.Priority
	}

	task.DueDate = nil
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dueDate", ErrInvalidInput)
		}
		task.DueDate = &parsed
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeUpdated,
		fmt.Sprintf("Task '%s' was updated", task.Title), "task", task.ID)

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Complete marks a task done. Completing an already done task keeps the
// original completion time.
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.TaskStatusDone {
		now := time.Now().UTC()
		task.Status = domain.TaskStatusDone
		task.CompletedAt = &now

		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to complete task: %w", err)
		}

		recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeStatus,
			fmt.Sprintf("Task '%s' was completed", task.Title), "task", task.ID)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Reopen puts a completed task back in the open state
func (s *TaskService) Reopen(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.TaskStatusOpen {
		task.Status = domain.TaskStatusOpen
		task.CompletedAt = nil

		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to reopen task: %w", err)
		}

		recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeStatus,
			fmt.Sprintf("Task '%s' was reopened", task.Title), "task", task.ID)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeDeleted,
		fmt.Sprintf("Task '%s' was deleted", task.Title), "task", task.ID)

	return nil
}

func (s *TaskService) getTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}
