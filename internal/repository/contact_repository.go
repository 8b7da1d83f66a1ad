package repository

import (
	"context"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Preload("Company").
		First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}

// ListByCompany returns contacts belonging to a company
func (r *ContactRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&contacts).Error
	return contacts, err
}

// ContactFilters holds filters for listing contacts
type ContactFilters struct {
	Search    string
	CompanyID *uuid.UUID
}

// ContactSortOption defines sort options for contacts
type ContactSortOption string

const (
	ContactSortByNameAsc     ContactSortOption = "name_asc"
	ContactSortByNameDesc    ContactSortOption = "name_desc"
	ContactSortByCreatedDesc ContactSortOption = "created_desc"
)

// List returns contacts with filters and pagination
func (r *ContactRepository) List(ctx context.Context, page, pageSize int, filters *ContactFilters, sortBy ContactSortOption) ([]domain.Contact, int64, error) {
	var contacts []domain.Contact
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Contact{})

	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			query = query.Where(
				"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
				pattern, pattern,
			)
		}
		if filters.CompanyID != nil {
			query = query.Where("company_id = ?", *filters.CompanyID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case ContactSortByNameDesc:
		query = query.Order("name DESC")
	case ContactSortByCreatedDesc:
		query = query.Order("created_at DESC")
	default:
		query = query.Order("name ASC")
	}

	err := query.Preload("Company").
		Offset(offset).
		Limit(pageSize).
		Find(&contacts).Error

	return contacts, total, err
}

// Count returns the total number of contacts
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).Count(&count).Error
	return count, err
}
