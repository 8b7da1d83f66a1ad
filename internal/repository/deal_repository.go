package repository

import (
	"context"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Contact").
		First(&deal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(deal).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

// UpdateStage moves a deal to the given stage and refreshes its last
// contact timestamp in the same write.
func (r *DealRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage string, lastContact time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage":        stage,
			"last_contact": lastContact,
		}).Error
}

// ListAll returns every deal, for pipeline board assembly
func (r *DealRepository) ListAll(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&deals).Error
	return deals, err
}

// ListByStage returns deals in a stage ordered by creation time
func (r *DealRepository) ListByStage(ctx context.Context, stage string) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Where("stage = ?", domain.CanonicalStageName(stage)).
		Order("created_at ASC").
		Find(&deals).Error
	return deals, err
}

// DealFilters holds filters for listing deals
type DealFilters struct {
	Search    string
	Stage     *string
	CompanyID *uuid.UUID
	ContactID *uuid.UUID
}

// DealSortOption defines sort options for deals
type DealSortOption string

const (
	DealSortByCreatedDesc DealSortOption = "created_desc"
	DealSortByValueDesc   DealSortOption = "value_desc"
	DealSortByValueAsc    DealSortOption = "value_asc"
	DealSortByTitleAsc    DealSortOption = "title_asc"
)

// List returns deals with filters and pagination
func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters, sortBy DealSortOption) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Deal{})

	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			query = query.Where("LOWER(title) LIKE LOWER(?)", pattern)
		}
		if filters.Stage != nil {
			query = query.Where("stage = ?", domain.CanonicalStageName(*filters.Stage))
		}
		if filters.CompanyID != nil {
			query = query.Where("company_id = ?", *filters.CompanyID)
		}
		if filters.ContactID != nil {
			query = query.Where("contact_id = ?", *filters.ContactID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case DealSortByValueDesc:
		query = query.Order("value_cents DESC")
	case DealSortByValueAsc:
		query = query.Order("value_cents ASC")
	case DealSortByTitleAsc:
		query = query.Order("title ASC")
	default:
		query = query.Order("created_at DESC")
	}

	err := query.Preload("Company").
		Preload("Contact").
		Offset(offset).
		Limit(pageSize).
		Find(&deals).Error

	return deals, total, err
}

// CountByStage groups open deal counts per stage
func (r *DealRepository) CountByStage(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Stage string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Select("stage, COUNT(*) as count").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Stage] = rw.Count
	}
	return counts, nil
}

// CountInStage returns the number of deals referencing a stage
func (r *DealRepository) CountInStage(ctx context.Context, stage string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("stage = ?", domain.CanonicalStageName(stage)).
		Count(&count).Error
	return count, err
}

// SumValueInStages sums deal value over the given stages
func (r *DealRepository) SumValueInStages(ctx context.Context, stages []string) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Select("SUM(value_cents)").
		Where("stage IN ?", stages).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// SumValueWonSince sums won deal value updated at or after the cutoff
func (r *DealRepository) SumValueWonSince(ctx context.Context, since time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Select("SUM(value_cents)").
		Where("stage = ? AND updated_at >= ?", "won", since).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
