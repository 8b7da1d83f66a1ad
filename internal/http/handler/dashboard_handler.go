package handler

import (
	"net/http"

	"github.com/flowcrm/crm-api/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler serves aggregated CRM metrics
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics godoc
// @Summary Get dashboard metrics
// @Description Get headline metrics: open pipeline, won value this quarter, overdue tasks, pending quotes
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Failure 500 {object} domain.APIError
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard metrics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
