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

type CompanyService struct {
	companyRepo  *repository.CompanyRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewCompanyService(
	companyRepo *repository.CompanyRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo:  companyRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *CompanyService) Create(ctx context.Context, req *domain.CreateCompanyRequest) (*domain.CompanyDTO, error) {
	company := &domain.Company{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeCreated,
		fmt.Sprintf("Company '%s' was created", company.Name), "company", company.ID)

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CompanyDTO, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) List(ctx context.Context, page, pageSize int, search string) ([]domain.CompanyDTO, int64, error) {
	companies, total, err := s.companyRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}

	dtos := make([]domain.CompanyDTO, len(companies))
	for i, company := range companies {
		dtos[i] = mapper.ToCompanyDTO(&company)
	}

	return dtos, total, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCompanyRequest) (*domain.CompanyDTO, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	company.Name = req.Name
	company.Industry = req.Industry
	company.Website = req.Website
	company.Phone = req.Phone
	company.Address = req.Address

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeUpdated,
		fmt.Sprintf("Company '%s' was updated", company.Name), "company", company.ID)

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get company: %w", err)
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeDeleted,
		fmt.Sprintf("Company '%s' was deleted", company.Name), "company", company.ID)

	return nil
}
