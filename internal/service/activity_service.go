package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/mapper"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *ActivityService) List(ctx context.Context, page, pageSize int, filters *repository.ActivityFilters) ([]domain.ActivityDTO, int64, error) {
	activities, total, err := s.activityRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = mapper.ToActivityDTO(&activity)
	}

	return dtos, total, nil
}

// recordActivity appends a feed entry. Feed writes are best effort: a
// failure is logged and never fails the mutation that triggered it.
func recordActivity(ctx context.Context, repo *repository.ActivityRepository, logger *zap.Logger, activityType domain.ActivityType, description, entityType string, entityID uuid.UUID) {
	activity := &domain.Activity{
		Type:        activityType,
		Description: description,
		Actor:       "system",
		EntityType:  entityType,
		EntityID:    entityID,
		OccurredAt:  time.Now().UTC(),
	}
	if err := repo.Create(ctx, activity); err != nil {
		logger.Warn("failed to record activity",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
	}
}
