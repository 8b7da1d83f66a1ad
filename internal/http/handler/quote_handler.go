package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteHandler handles HTTP requests for quotes and their line items
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// List godoc
// @Summary List quotes
// @Description Get paginated list of quotes with optional filters
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param search query string false "Search by customer name or quote number"
// @Param status query string false "Filter by status" Enums(draft, pending, approved, rejected, expired)
// @Param dealId query string false "Filter by deal ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.QuoteFilters{
		Search: r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		qs := domain.QuoteStatus(status)
		if !qs.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of draft, pending, approved, rejected, expired")
			return
		}
		filters.Status = &qs
	}
	if dealID := r.URL.Query().Get("dealId"); dealID != "" {
		id, err := uuid.Parse(dealID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid dealId: must be a valid UUID")
			return
		}
		filters.DealID = &id
	}

	quotes, total, err := h.quoteService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}

	respondPaginated(w, quotes, total, page, pageSize)
}

// GetByID godoc
// @Summary Get quote
// @Description Get a quote with its line items in line number order
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to get quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Create godoc
// @Summary Create quote
// @Description Create a draft quote with a generated number and one default line item
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

// Update godoc
// @Summary Update quote
// @Description Update quote header fields. Changing the tax rate recomputes totals.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body domain.UpdateQuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// AddItem godoc
// @Summary Add quote line item
// @Description Append a default line item: quantity 1, zero price
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.AddItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to add quote item", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to add quote item")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// UpdateItem godoc
// @Summary Update quote line item
// @Description Apply a partial edit to a line item. Non-numeric quantity or price coerces to zero.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param lineNo path int true "Line number"
// @Param request body domain.UpdateQuoteItemRequest true "Item fields"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id}/items/{lineNo} [put]
func (h *QuoteHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	lineNo, err := strconv.Atoi(chi.URLParam(r, "lineNo"))
	if err != nil || lineNo < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid line number")
		return
	}

	var req domain.UpdateQuoteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.UpdateItem(r.Context(), id, lineNo, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote or line item not found")
			return
		}
		h.logger.Error("failed to update quote item", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update quote item")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// RemoveItem godoc
// @Summary Remove quote line item
// @Description Remove a line item and recompute totals. Removing the last line leaves the quote unchanged.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Param lineNo path int true "Line number"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id}/items/{lineNo} [delete]
func (h *QuoteHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	lineNo, err := strconv.Atoi(chi.URLParam(r, "lineNo"))
	if err != nil || lineNo < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid line number")
		return
	}

	quote, err := h.quoteService.RemoveItem(r.Context(), id, lineNo)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote or line item not found")
			return
		}
		h.logger.Error("failed to remove quote item", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to remove quote item")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete godoc
// @Summary Delete quote
// @Tags Quotes
// @Param id path string true "Quote ID"
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to delete quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
