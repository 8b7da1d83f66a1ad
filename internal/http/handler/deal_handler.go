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

// DealHandler handles HTTP requests for deals and the pipeline board
type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// List godoc
// @Summary List deals
// @Description Get paginated list of deals with optional filters
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param search query string false "Search by title"
// @Param stage query string false "Filter by stage name"
// @Param companyId query string false "Filter by company ID"
// @Param contactId query string false "Filter by contact ID"
// @Param sortBy query string false "Sort option" Enums(created_desc, value_desc, value_asc, title_asc)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /deals [get]
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.DealFilters{
		Search: r.URL.Query().Get("search"),
	}

	if stage := r.URL.Query().Get("stage"); stage != "" {
		filters.Stage = &stage
	}
	if companyID := r.URL.Query().Get("companyId"); companyID != "" {
		id, err := uuid.Parse(companyID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid companyId: must be a valid UUID")
			return
		}
		filters.CompanyID = &id
	}
	if contactID := r.URL.Query().Get("contactId"); contactID != "" {
		id, err := uuid.Parse(contactID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid contactId: must be a valid UUID")
			return
		}
		filters.ContactID = &id
	}

	sortBy := repository.DealSortByCreatedDesc
	if s := r.URL.Query().Get("sortBy"); s != "" {
		sortBy = repository.DealSortOption(s)
	}

	deals, total, err := h.dealService.List(r.Context(), page, pageSize, filters, sortBy)
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deals")
		return
	}

	respondPaginated(w, deals, total, page, pageSize)
}

// GetPipeline godoc
// @Summary Get pipeline board
// @Description Get all deals grouped into stage columns with per-stage value totals
// @Tags Deals
// @Produce json
// @Success 200 {object} domain.PipelineBoardDTO
// @Failure 500 {object} domain.APIError
// @Router /deals/pipeline [get]
func (h *DealHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	board, err := h.dealService.GetPipelineBoard(r.Context())
	if err != nil {
		h.logger.Error("failed to build pipeline board", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build pipeline board")
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// GetByID godoc
// @Summary Get deal
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals/{id} [get]
func (h *DealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Create godoc
// @Summary Create deal
// @Description Create a deal in one of the configured pipeline stages
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body domain.CreateDealRequest true "Deal data"
// @Success 201 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals [post]
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrStageNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage is not configured")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Referenced company or contact not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create deal")
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// Update godoc
// @Summary Update deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.UpdateDealRequest true "Deal data"
// @Success 200 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals/{id} [put]
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// MoveStage godoc
// @Summary Move deal to another stage
// @Description Reassign a deal to a configured stage, refreshing its last contact timestamp
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.MoveStageRequest true "Target stage"
// @Success 200 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals/{id}/stage [put]
func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.MoveStage(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrStageNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage is not configured")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to move deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to move deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// GetStageHistory godoc
// @Summary Get deal stage history
// @Description Get a deal's stage transitions, newest first
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {array} domain.StageHistoryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals/{id}/history [get]
func (h *DealHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	history, err := h.dealService.GetStageHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get stage history", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Delete godoc
// @Summary Delete deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /deals/{id} [delete]
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to delete deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete deal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
