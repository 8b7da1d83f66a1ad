package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/mapper"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StageService manages the configured pipeline stage set. The set is
// closed: deals may only reference stages that exist here, and a stage
// cannot be removed while deals still reference it.
type StageService struct {
	stageRepo *repository.StageRepository
	dealRepo  *repository.DealRepository
	logger    *zap.Logger
}

func NewStageService(
	stageRepo *repository.StageRepository,
	dealRepo *repository.DealRepository,
	logger *zap.Logger,
) *StageService {
	return &StageService{
		stageRepo: stageRepo,
		dealRepo:  dealRepo,
		logger:    logger,
	}
}

func (s *StageService) List(ctx context.Context) ([]domain.StageDTO, error) {
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	dtos := make([]domain.StageDTO, len(stages))
	for i, stage := range stages {
		dtos[i] = mapper.ToStageDTO(&stage)
	}
	return dtos, nil
}

func (s *StageService) Create(ctx context.Context, req *domain.CreateStageRequest) (*domain.StageDTO, error) {
	name := domain.CanonicalStageName(req.Name)

	if _, err := s.stageRepo.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: stage %q already exists", ErrConflict, name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check stage: %w", err)
	}

	stage := &domain.PipelineStage{
		Name:      name,
		Label:     req.Label,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}

	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	dto := mapper.ToStageDTO(stage)
	return &dto, nil
}

// Update changes a stage's display properties. The canonical name is
// immutable; deals reference stages by name.
func (s *StageService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateStageRequest) (*domain.StageDTO, error) {
	stage, err := s.stageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}

	stage.Label = req.Label
	stage.Color = req.Color
	stage.SortOrder = req.SortOrder

	if err := s.stageRepo.Update(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}

	dto := mapper.ToStageDTO(stage)
	return &dto, nil
}

// Delete removes a stage from the configured set. A stage still
// referenced by deals cannot be removed.
func (s *StageService) Delete(ctx context.Context, id uuid.UUID) error {
	stage, err := s.stageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get stage: %w", err)
	}

	count, err := s.dealRepo.CountInStage(ctx, stage.Name)
	if err != nil {
		return fmt.Errorf("failed to count deals in stage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d deals still in stage %q", ErrStageInUse, count, stage.Name)
	}

	if err := s.stageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	s.logger.Info("pipeline stage removed", zap.String("stage", stage.Name))
	return nil
}
