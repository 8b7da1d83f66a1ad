package repository

import (
	"context"
	"fmt"

	"github.com/flowcrm/crm-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository handles database operations for number
// sequences, keyed by kind and year. Quote numbers draw from the
// "quote" sequence so they stay unique within a year.
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically increments and returns the next sequence
// value for a kind/year. A missing sequence row is created first; the
// increment runs as a single UPDATE so concurrent callers never see
// the same value.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, kind string, year int) (int, error) {
	var seq domain.NumberSequence

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.NumberSequence{Kind: kind, Year: year}).Error; err != nil {
			return fmt.Errorf("failed to ensure number sequence: %w", err)
		}

		if err := tx.Model(&domain.NumberSequence{}).
			Where("kind = ? AND year = ?", kind, year).
			UpdateColumn("last_sequence", gorm.Expr("last_sequence + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment number sequence: %w", err)
		}

		if err := tx.Where("kind = ? AND year = ?", kind, year).
			First(&seq).Error; err != nil {
			return fmt.Errorf("failed to read number sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return seq.LastSequence, nil
}

// GetCurrentSequence retrieves the current sequence value without
// incrementing. Returns 0 if no sequence exists for the kind/year.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, kind string, year int) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("kind = ? AND year = ?", kind, year).
		First(&seq)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}

// SetSequence raises the sequence to a specific value. The value should
// be the last used sequence number; it is never lowered, so imports of
// pre-numbered quotes cannot cause collisions.
func (r *NumberSequenceRepository) SetSequence(ctx context.Context, kind string, year int, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.NumberSequence{Kind: kind, Year: year}).Error; err != nil {
			return fmt.Errorf("failed to ensure number sequence: %w", err)
		}
		if err := tx.Model(&domain.NumberSequence{}).
			Where("kind = ? AND year = ? AND last_sequence < ?", kind, year, value).
			UpdateColumn("last_sequence", value).Error; err != nil {
			return fmt.Errorf("failed to update number sequence: %w", err)
		}
		return nil
	})
}
