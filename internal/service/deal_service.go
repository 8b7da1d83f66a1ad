package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/mapper"
	"github.com/flowcrm/crm-api/internal/pipeline"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DealService struct {
	dealRepo     *repository.DealRepository
	stageRepo    *repository.StageRepository
	companyRepo  *repository.CompanyRepository
	contactRepo  *repository.ContactRepository
	historyRepo  *repository.DealStageHistoryRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewDealService(
	dealRepo *repository.DealRepository,
	stageRepo *repository.StageRepository,
	companyRepo *repository.CompanyRepository,
	contactRepo *repository.ContactRepository,
	historyRepo *repository.DealStageHistoryRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		dealRepo:     dealRepo,
		stageRepo:    stageRepo,
		companyRepo:  companyRepo,
		contactRepo:  contactRepo,
		historyRepo:  historyRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// resolveStage validates a stage name against the configured stage set
// and returns its canonical form.
func (s *DealService) resolveStage(ctx context.Context, name string) (string, error) {
	stage, err := s.stageRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: stage %q is not configured", ErrStageNotFound, name)
		}
		return "", fmt.Errorf("failed to look up stage: %w", err)
	}
	return stage.Name, nil
}

func (s *DealService) checkReferences(ctx context.Context, companyID, contactID *uuid.UUID) error {
	if companyID != nil {
		if _, err := s.companyRepo.GetByID(ctx, *companyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: company %s", ErrNotFound, companyID)
			}
			return fmt.Errorf("failed to check company: %w", err)
		}
	}
	if contactID != nil {
		if _, err := s.contactRepo.GetByID(ctx, *contactID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contact %s", ErrNotFound, contactID)
			}
			return fmt.Errorf("failed to check contact: %w", err)
		}
	}
	return nil
}

func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	stage, err := s.resolveStage(ctx, req.Stage)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, req.CompanyID, req.ContactID); err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		Title:       req.Title,
		CompanyID:   req.CompanyID,
		ContactID:   req.ContactID,
		Stage:       stage,
		ValueCents:  req.ValueCents,
		Probability: req.Probability,
		LastContact: time.Now().UTC(),
		Notes:       req.Notes,
	}

	if req.ExpectedClose != "" {
		parsed, err := parseDate(req.ExpectedClose)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expectedClose date", ErrInvalidInput)
		}
		deal.ExpectedClose = &parsed
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeCreated,
		fmt.Sprintf("Deal '%s' was created in stage '%s'", deal.Title, deal.Stage), "deal", deal.ID)

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters, sortBy repository.DealSortOption) ([]domain.DealDTO, int64, error) {
	deals, total, err := s.dealRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deals: %w", err)
	}

	dtos := make([]domain.DealDTO, len(deals))
	for i, deal := range deals {
		dtos[i] = mapper.ToDealDTO(&deal)
	}
	return dtos, total, nil
}

func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if err := s.checkReferences(ctx, req.CompanyID, req.ContactID); err != nil {
		return nil, err
	}

	deal.Title = req.Title
	deal.CompanyID = req.CompanyID
	deal.ContactID = req.ContactID
	deal.ValueCents = req.ValueCents
	deal.Probability = req.Probability
	deal.Notes = req.Notes

	deal.ExpectedClose = nil
	if req.ExpectedClose != "" {
		parsed, err := parseDate(req.ExpectedClose)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid expectedClose date", ErrInvalidInput)
		}
		deal.ExpectedClose = &parsed
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeUpdated,
		fmt.Sprintf("Deal '%s' was updated", deal.Title), "deal", deal.ID)

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// MoveStage reassigns a deal to another configured stage. The move
// refreshes the deal's last contact timestamp and records a stage
// transition. Moving to the current stage is a no-op apart from the
// last contact refresh.
func (s *DealService) MoveStage(ctx context.Context, id uuid.UUID, req *domain.MoveStageRequest) (*domain.DealDTO, error) {
	stage, err := s.resolveStage(ctx, req.Stage)
	if err != nil {
		return nil, err
	}

	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	fromStage := deal.Stage
	now := time.Now().UTC()

	if err := s.dealRepo.UpdateStage(ctx, id, stage, now); err != nil {
		return nil, fmt.Errorf("failed to move deal: %w", err)
	}
	deal.Stage = stage
	deal.LastContact = now

	if fromStage != stage {
		entry := &domain.DealStageHistory{
			DealID:    id,
			FromStage: fromStage,
			ToStage:   stage,
			ChangedAt: now,
		}
		if err := s.historyRepo.RecordTransition(ctx, entry); err != nil {
			s.logger.Warn("failed to record stage transition",
				zap.String("deal_id", id.String()),
				zap.Error(err))
		}

		recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeStageMoved,
			fmt.Sprintf("Deal '%s' moved from '%s' to '%s'", deal.Title, fromStage, stage), "deal", deal.ID)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get deal: %w", err)
	}

	if err := s.dealRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	if err := s.historyRepo.DeleteByDeal(ctx, id); err != nil {
		s.logger.Warn("failed to delete stage history",
			zap.String("deal_id", id.String()),
			zap.Error(err))
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeDeleted,
		fmt.Sprintf("Deal '%s' was deleted", deal.Title), "deal", deal.ID)

	return nil
}

// GetPipelineBoard assembles the full board: one column per configured
// stage, each with its deals and value total.
func (s *DealService) GetPipelineBoard(ctx context.Context) (*domain.PipelineBoardDTO, error) {
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	deals, err := s.dealRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	columns := pipeline.Board(stages, deals)

	board := &domain.PipelineBoardDTO{
		Columns: make([]domain.PipelineColumnDTO, len(columns)),
	}
	for i, col := range columns {
		dealDTOs := make([]domain.DealDTO, len(col.Deals))
		for j, deal := range col.Deals {
			dealDTOs[j] = mapper.ToDealDTO(&deal)
		}
		board.Columns[i] = domain.PipelineColumnDTO{
			Stage:      mapper.ToStageDTO(&col.Stage),
			Deals:      dealDTOs,
			DealCount:  len(col.Deals),
			TotalCents: col.TotalCents,
		}
		board.DealCount += len(col.Deals)
		board.TotalCents += col.TotalCents
	}
	return board, nil
}

// GetStageHistory returns a deal's stage transitions, newest first
func (s *DealService) GetStageHistory(ctx context.Context, id uuid.UUID) ([]domain.StageHistoryDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	entries, err := s.historyRepo.ListByDeal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage history: %w", err)
	}

	dtos := make([]domain.StageHistoryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapper.ToStageHistoryDTO(&entry)
	}
	return dtos, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
