package repository

import (
	"context"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StageRepository handles database operations for pipeline stages.
// The stage table is the authority on which stage names are valid.
type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

// List returns all stages ordered by sort order
func (r *StageRepository) List(ctx context.Context) ([]domain.PipelineStage, error) {
	var stages []domain.PipelineStage
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Find(&stages).Error
	return stages, err
}

// GetByName looks a stage up by its canonical (lower-case) name
func (r *StageRepository) GetByName(ctx context.Context, name string) (*domain.PipelineStage, error) {
	var stage domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("name = ?", domain.CanonicalStageName(name)).
		First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineStage, error) {
	var stage domain.PipelineStage
	err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) Create(ctx context.Context, stage *domain.PipelineStage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

func (r *StageRepository) Update(ctx context.Context, stage *domain.PipelineStage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

func (r *StageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PipelineStage{}, "id = ?", id).Error
}
