package repository

import (
	"context"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DealStageHistoryRepository struct {
	db *gorm.DB
}

func NewDealStageHistoryRepository(db *gorm.DB) *DealStageHistoryRepository {
	return &DealStageHistoryRepository{db: db}
}

// RecordTransition stores one stage change for a deal
func (r *DealStageHistoryRepository) RecordTransition(ctx context.Context, entry *domain.DealStageHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByDeal returns a deal's transitions, newest first
func (r *DealStageHistoryRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistory, error) {
	var entries []domain.DealStageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("changed_at DESC").
		Find(&entries).Error
	return entries, err
}

// DeleteByDeal removes all history for a deal (used when the deal is deleted)
func (r *DealStageHistoryRepository) DeleteByDeal(ctx context.Context, dealID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Delete(&domain.DealStageHistory{}).Error
}
