package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StageHandler handles HTTP requests for pipeline stage configuration
type StageHandler struct {
	stageService *service.StageService
	logger       *zap.Logger
}

func NewStageHandler(stageService *service.StageService, logger *zap.Logger) *StageHandler {
	return &StageHandler{
		stageService: stageService,
		logger:       logger,
	}
}

// List godoc
// @Summary List pipeline stages
// @Description Get all configured pipeline stages in board order
// @Tags Stages
// @Produce json
// @Success 200 {array} domain.StageDTO
// @Failure 500 {object} domain.APIError
// @Router /stages [get]
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	stages, err := h.stageService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list stages", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list stages")
		return
	}

	respondJSON(w, http.StatusOK, stages)
}

// Create godoc
// @Summary Create pipeline stage
// @Tags Stages
// @Accept json
// @Produce json
// @Param request body domain.CreateStageRequest true "Stage data"
// @Success 201 {object} domain.StageDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /stages [post]
func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.stageService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A stage with that name already exists")
			return
		}
		h.logger.Error("failed to create stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create stage")
		return
	}

	respondJSON(w, http.StatusCreated, stage)
}

// Update godoc
// @Summary Update pipeline stage
// @Description Update a stage's label, color, or board position
// @Tags Stages
// @Accept json
// @Produce json
// @Param id path string true "Stage ID"
// @Param request body domain.UpdateStageRequest true "Stage data"
// @Success 200 {object} domain.StageDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /stages/{id} [put]
func (h *StageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid stage ID: must be a valid UUID")
		return
	}

	var req domain.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.stageService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage not found")
			return
		}
		h.logger.Error("failed to update stage", zap.Error(err), zap.String("stage_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update stage")
		return
	}

	respondJSON(w, http.StatusOK, stage)
}

// Delete godoc
// @Summary Delete pipeline stage
// @Description Remove a stage from the configured set. Fails while deals still reference it.
// @Tags Stages
// @Param id path string true "Stage ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /stages/{id} [delete]
func (h *StageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid stage ID: must be a valid UUID")
		return
	}

	if err := h.stageService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage not found")
			return
		}
		if errors.Is(err, service.ErrStageInUse) {
			respondWithError(w, http.StatusConflict, "Stage still has deals assigned to it")
			return
		}
		h.logger.Error("failed to delete stage", zap.Error(err), zap.String("stage_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete stage")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
