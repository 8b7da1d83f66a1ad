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

type ContactService struct {
	contactRepo  *repository.ContactRepository
	companyRepo  *repository.CompanyRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewContactService(
	contactRepo *repository.ContactRepository,
	companyRepo *repository.CompanyRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		companyRepo:  companyRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *ContactService) Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	if req.CompanyID != nil {
		if _, err := s.companyRepo.GetByID(ctx, *req.CompanyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: company %s", ErrNotFound, req.CompanyID)
			}
			return nil, fmt.Errorf("failed to check company: %w", err)
		}
	}

	contact := &domain.Contact{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		CompanyID: req.CompanyID,
		Notes:     req.Notes,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeCreated,
		fmt.Sprintf("Contact '%s' was created", contact.Name), "contact", contact.ID)

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) List(ctx context.Context, page, pageSize int, filters *repository.ContactFilters, sortBy repository.ContactSortOption) ([]domain.ContactDTO, int64, error) {
	contacts, total, err := s.contactRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i, contact := range contacts {
		dtos[i] = mapper.ToContactDTO(&contact)
	}

	return dtos, total, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if req.CompanyID != nil {
		if _, err := s.companyRepo.GetByID(ctx, *req.CompanyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: company %s", ErrNotFound, req.CompanyID)
			}
			return nil, fmt.Errorf("failed to check company: %w", err)
		}
	}

	contact.Name = req.Name
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Position = req.Position
	contact.CompanyID = req.CompanyID
	contact.Notes = req.Notes

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeUpdated,
		fmt.Sprintf("Contact '%s' was updated", contact.Name), "contact", contact.ID)

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get contact: %w", err)
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	recordActivity(ctx, s.activityRepo, s.logger, domain.ActivityTypeDeleted,
		fmt.Sprintf("Contact '%s' was deleted", contact.Name), "contact", contact.ID)

	return nil
}
