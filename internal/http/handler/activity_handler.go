package handler

import (
	"net/http"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityHandler exposes the read-only activity feed
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List godoc
// @Summary List activity feed
// @Description Get paginated activity feed entries, newest first
// @Tags Activities
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param entityType query string false "Filter by entity type" Enums(company, contact, deal, quote, task)
// @Param entityId query string false "Filter by entity ID"
// @Param type query string false "Filter by activity type" Enums(created, updated, deleted, stage_moved, status_changed)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Router /activities [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.ActivityFilters{
		EntityType: r.URL.Query().Get("entityType"),
	}

	if entityID := r.URL.Query().Get("entityId"); entityID != "" {
		id, err := uuid.Parse(entityID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid entityId: must be a valid UUID")
			return
		}
		filters.EntityID = &id
	}
	if activityType := r.URL.Query().Get("type"); activityType != "" {
		at := domain.ActivityType(activityType)
		filters.Type = &at
	}

	activities, total, err := h.activityService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list activities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}

	respondPaginated(w, activities, total, page, pageSize)
}
