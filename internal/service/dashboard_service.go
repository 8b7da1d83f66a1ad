package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates headline metrics across the CRM
type DashboardService struct {
	dealRepo    *repository.DealRepository
	stageRepo   *repository.StageRepository
	taskRepo    *repository.TaskRepository
	quoteRepo   *repository.QuoteRepository
	contactRepo *repository.ContactRepository
	companyRepo *repository.CompanyRepository
	logger      *zap.Logger
}

func NewDashboardService(
	dealRepo *repository.DealRepository,
	stageRepo *repository.StageRepository,
	taskRepo *repository.TaskRepository,
	quoteRepo *repository.QuoteRepository,
	contactRepo *repository.ContactRepository,
	companyRepo *repository.CompanyRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dealRepo:    dealRepo,
		stageRepo:   stageRepo,
		taskRepo:    taskRepo,
		quoteRepo:   quoteRepo,
		contactRepo: contactRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// closedStages are terminal; every other configured stage counts as open
var closedStages = map[string]bool{
	"won":  true,
	"lost": true,
}

// GetDashboard assembles the metrics in one pass
func (s *DashboardService) GetDashboard(ctx context.Context) (*domain.DashboardDTO, error) {
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	openStages := make([]string, 0, len(stages))
	for _, stage := range stages {
		if !closedStages[stage.Name] {
			openStages = append(openStages, stage.Name)
		}
	}

	counts, err := s.dealRepo.CountByStage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count deals by stage: %w", err)
	}

	dashboard := &domain.DashboardDTO{
		DealsByStage: make([]domain.StageCountDTO, 0, len(stages)),
	}

	for _, stage := range stages {
		count := counts[stage.Name]
		dashboard.DealsByStage = append(dashboard.DealsByStage, domain.StageCountDTO{
			Stage: stage.Name,
			Count: count,
		})
		if !closedStages[stage.Name] {
			dashboard.OpenDealCount += count
		}
	}
	if len(openStages) > 0 {
		dashboard.OpenDealValueCents, err = s.dealRepo.SumValueInStages(ctx, openStages)
		if err != nil {
			return nil, fmt.Errorf("failed to sum open deal value: %w", err)
		}
	}

	dashboard.WonValueCentsQTD, err = s.dealRepo.SumValueWonSince(ctx, quarterStart(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to sum won deal value: %w", err)
	}

	dashboard.OverdueTaskCount, err = s.taskRepo.CountOverdue(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	dashboard.PendingQuoteCount, err = s.quoteRepo.CountByStatus(ctx, domain.QuoteStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending quotes: %w", err)
	}

	dashboard.ContactCount, err = s.contactRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	dashboard.CompanyCount, err = s.companyRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}

	return dashboard, nil
}

// quarterStart returns midnight UTC on the first day of t's quarter
func quarterStart(t time.Time) time.Time {
	quarterMonth := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
}
