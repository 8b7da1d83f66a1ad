package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/repository"
	"go.uber.org/zap"
)

const quoteSequenceKind = "quote"

// NumberSequenceService hands out document numbers. Quote numbers are
// formatted QUO-YYYY-NNN and restart at 001 each year.
type NumberSequenceService struct {
	sequenceRepo *repository.NumberSequenceRepository
	logger       *zap.Logger
}

func NewNumberSequenceService(
	sequenceRepo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		sequenceRepo: sequenceRepo,
		logger:       logger,
	}
}

// GenerateQuoteNumber returns the next quote number for the current year
func (s *NumberSequenceService) GenerateQuoteNumber(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()

	seq, err := s.sequenceRepo.GetNextNumber(ctx, quoteSequenceKind, year)
	if err != nil {
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	return fmt.Sprintf("QUO-%d-%03d", year, seq), nil
}
