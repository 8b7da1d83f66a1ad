package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/mapper"
	"github.com/flowcrm/crm-api/internal/quote"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService manages quotes and their line items. Every mutation runs
// the calculator before persisting, so stored totals always match the
// stored items.
type QuoteService struct {
	quoteRepo    *repository.QuoteRepository
	dealRepo     *repository.DealRepository
	sequences    *NumberSequenceService
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	dealRepo *repository.DealRepository,
	sequences *NumberSequenceService,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		dealRepo:     dealRepo,
		sequences:    sequences,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Create builds a new draft quote with a generated number and a single
// default line item.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	if req.DealID != nil {
		if _, err := s.dealRepo.GetByID(ctx, *req.DealID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: deal %s", ErrNotFound, req.DealID)
			}
			return nil, fmt.Errorf("failed to check deal: %w", err)
		}
	}

	number, err := s.sequences.GenerateQuoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	taxRate := domain.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	q := &domain.Quote{
		QuoteNumber:  number,
		DealID:       req.DealID,
		CustomerName: req.CustomerName,
		Status:       domain.QuoteStatusDraft,
		TaxRate:      taxRate,
	}

	if req.ValidUntil != "" {
		parsed, err := parseDate(req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
		}
		q.ValidUntil = &parsed
	}

	q.Items, _ = quote.AppendItem(nil)
	quote.Recompute(q)

	if err := s.quoteRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeCreated,
		fmt.Sprintf("Quote %s was created for '%s'", q.QuoteNumber, q.CustomerName), "quote", q.ID)

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, filters *repository.QuoteFilters) ([]domain.QuoteDTO, int64, error) {
	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, len(quotes))
	for i, q := range quotes {
		dtos[i] = mapper.ToQuoteDTO(&q)
	}
	return dtos, total, nil
}

// Update edits quote header fields. Changing the tax rate recomputes
// the totals against the existing items.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		q.CustomerName = *req.CustomerName
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown quote status %q", ErrInvalidInput, *req.Status)
		}
		if q.Status != *req.Status {
			recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeStatus,
				fmt.Sprintf("Quote %s moved from %s to %s", q.QuoteNumber, q.Status, *req.Status), "quote", q.ID)
		}
		q.Status = *req.Status
	}
	if req.TaxRate != nil {
		q.TaxRate = *req.TaxRate
	}
	if req.ValidUntil != nil {
		if *req.ValidUntil == "" {
			q.ValidUntil = nil
		} else {
			parsed, err := parseDate(*req.ValidUntil)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
			}
			q.ValidUntil = &parsed
		}
	}

	quote.Recompute(q)

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

// AddItem appends a default line to the quote: quantity 1, zero price
func (s *QuoteService) AddItem(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	q.Items, _ = quote.AppendItem(q.Items)
	quote.Recompute(q)

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

// UpdateItem applies a partial edit to one line item and recomputes
// the quote.
func (s *QuoteService) UpdateItem(ctx context.Context, id uuid.UUID, lineNo int, req *domain.UpdateQuoteItemRequest) (*domain.QuoteDTO, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	item := quote.FindItem(q.Items, lineNo)
	if item == nil {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNo)
	}

	quote.ApplyItemUpdate(item, req)
	quote.Recompute(q)

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

// RemoveItem deletes one line item and recomputes the quote. Removing
// the last remaining line leaves the quote unchanged.
func (s *QuoteService) RemoveItem(ctx context.Context, id uuid.UUID, lineNo int) (*domain.QuoteDTO, error) {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	items, found := quote.RemoveItem(q.Items, lineNo)
	if !found {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineNo)
	}
	q.Items = items
	quote.Recompute(q)

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(q)
	return &dto, nil
}

func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}

	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeDeleted,
		fmt.Sprintf("Quote %s was deleted", q.QuoteNumber), "quote", q.ID)

	return nil
}

// ExpireOverdue marks draft and pending quotes whose validity date has
// passed as expired. Returns the number of quotes expired.
func (s *QuoteService) ExpireOverdue(ctx context.Context) (int, error) {
	quotes, err := s.quoteRepo.ListExpirable(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable quotes: %w", err)
	}

	expired := 0
	for _, q := range quotes {
		if err := s.quoteRepo.UpdateStatus(ctx, q.ID, domain.QuoteStatusExpired); err != nil {
			s.logger.Warn("failed to expire quote",
				zap.String("quote_number", q.QuoteNumber),
				zap.Error(err))
			continue
		}
		expired++

		recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeStatus,
			fmt.Sprintf("Quote %s expired", q.QuoteNumber), "quote", q.ID)
	}
	return expired, nil
}

func (s *QuoteService) getQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	q, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}
