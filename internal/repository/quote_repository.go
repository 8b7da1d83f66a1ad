package repository

import (
	"context"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Save persists the quote header and replaces its items so that line
// removals are reflected in storage. Runs in a transaction: totals and
// items never diverge.
func (r *QuoteRepository) Save(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(quote).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range quote.Items {
			quote.Items[i].QuoteID = quote.ID
			// Re-inserted rows get fresh ids; line_no carries identity
			quote.Items[i].ID = uuid.Nil
		}
		if len(quote.Items) > 0 {
			if err := tx.Create(&quote.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, "id = ?", id).Error
	})
}

// QuoteFilters holds filters for listing quotes
type QuoteFilters struct {
	Search string
	Status *domain.QuoteStatus
	DealID *uuid.UUID
}

// List returns quotes with filters and pagination
func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, filters *QuoteFilters) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Quote{})

	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			query = query.Where(
				"LOWER(customer_name) LIKE LOWER(?) OR LOWER(quote_number) LIKE LOWER(?)",
				pattern, pattern,
			)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.DealID != nil {
			query = query.Where("deal_id = ?", *filters.DealID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&quotes).Error

	return quotes, total, err
}

// ListExpirable returns draft and pending quotes whose validity lapsed
// before the cutoff.
func (r *QuoteRepository) ListExpirable(ctx context.Context, cutoff time.Time) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.QuoteStatus{domain.QuoteStatusDraft, domain.QuoteStatusPending}).
		Where("valid_until IS NOT NULL AND valid_until < ?", cutoff).
		Find(&quotes).Error
	return quotes, err
}

// UpdateStatus sets a quote's status without touching items or totals
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountByStatus returns the number of quotes in a status
func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
