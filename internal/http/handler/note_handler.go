package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteHandler handles HTTP requests for notes
type NoteHandler struct {
	noteService *service.NoteService
	logger      *zap.Logger
}

func NewNoteHandler(noteService *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// List godoc
// @Summary List notes
// @Description Get paginated list of notes, newest first
// @Tags Notes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param dealId query string false "Filter by deal ID"
// @Param contactId query string false "Filter by contact ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /notes [get]
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.NoteFilters{}

	if dealID := r.URL.Query().Get("dealId"); dealID != "" {
		id, err := uuid.Parse(dealID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid dealId: must be a valid UUID")
			return
		}
		filters.DealID = &id
	}
	if contactID := r.URL.Query().Get("contactId"); contactID != "" {
		id, err := uuid.Parse(contactID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid contactId: must be a valid UUID")
			return
		}
		filters.ContactID = &id
	}

	notes, total, err := h.noteService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list notes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list notes")
		return
	}

	respondPaginated(w, notes, total, page, pageSize)
}

// GetByID godoc
// @Summary Get note
// @Tags Notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /notes/{id} [get]
func (h *NoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note ID: must be a valid UUID")
		return
	}

	note, err := h.noteService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error("failed to get note", zap.Error(err), zap.String("note_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// Create godoc
// @Summary Create note
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body domain.CreateNoteRequest true "Note data"
// @Success 201 {object} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Router /notes [post]
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create note", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// Update godoc
// @Summary Update note
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body domain.UpdateNoteRequest true "Note data"
// @Success 200 {object} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /notes/{id} [put]
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note ID: must be a valid UUID")
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	note, err := h.noteService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error("failed to update note", zap.Error(err), zap.String("note_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// Delete godoc
// @Summary Delete note
// @Tags Notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid note ID: must be a valid UUID")
		return
	}

	if err := h.noteService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error("failed to delete note", zap.Error(err), zap.String("note_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
