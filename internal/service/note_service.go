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

type NoteService struct {
	noteRepo *repository.NoteRepository
	logger   *zap.Logger
}

func NewNoteService(
	noteRepo *repository.NoteRepository,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		logger:   logger,
	}
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.NoteDTO, error) {
	note := &domain.Note{
		Body:      req.Body,
		Author:    req.Author,
		DealID:    req.DealID,
		ContactID: req.ContactID,
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.NoteDTO, error) {
	note, err := s.getNote(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) List(ctx context.Context, page, pageSize int, filters *repository.NoteFilters) ([]domain.NoteDTO, int64, error) {
	notes, total, err := s.noteRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	dtos := make([]domain.NoteDTO, len(notes))
	for i, note := range notes {
		dtos[i] = mapper.ToNoteDTO(&note)
	}
	return dtos, total, nil
}

func (s *NoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateNoteRequest) (*domain.NoteDTO, error) {
	note, err := s.getNote(ctx, id)
	if err != nil {
		return nil, err
	}

	note.Body = req.Body

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getNote(ctx, id); err != nil {
		return err
	}

	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteService) getNote(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}
