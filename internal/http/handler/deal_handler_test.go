package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/http/handler"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/flowcrm/crm-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupDealRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := zap.NewNop()

	dealService := service.NewDealService(
		repository.NewDealRepository(db),
		repository.NewStageRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewContactRepository(db),
		repository.NewDealStageHistoryRepository(db),
		repository.NewActivityRepository(db),
		logger,
	)
	dealHandler := handler.NewDealHandler(dealService, logger)

	r := chi.NewRouter()
	r.Route("/deals", func(r chi.Router) {
		r.Get("/", dealHandler.List)
		r.Post("/", dealHandler.Create)
		r.Get("/pipeline", dealHandler.GetPipeline)
		r.Get("/{id}", dealHandler.GetByID)
		r.Put("/{id}", dealHandler.Update)
		r.Delete("/{id}", dealHandler.Delete)
		r.Put("/{id}/stage", dealHandler.MoveStage)
		r.Get("/{id}/history", dealHandler.GetStageHistory)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDealHandler_CreateAndMoveStage(t *testing.T) {
	r := setupDealRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/deals", map[string]interface{}{
		"title":      "Acme rollout",
		"stage":      "lead",
		"valueCents": 50000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.DealDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "lead", created.Stage)

	rec = doJSON(t, r, http.MethodPut, fmt.Sprintf("/deals/%s/stage", created.ID), map[string]string{
		"stage": "qualified",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var moved domain.DealDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&moved))
	assert.Equal(t, "qualified", moved.Stage)
}

func TestDealHandler_MoveStage_UnknownStage(t *testing.T) {
	r := setupDealRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/deals", map[string]interface{}{
		"title": "Acme rollout",
		"stage": "lead",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.DealDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, r, http.MethodPut, fmt.Sprintf("/deals/%s/stage", created.ID), map[string]string{
		"stage": "archived",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Equal(t, domain.ErrorTypeNotFound, apiErr.Type)
	assert.Equal(t, "Stage is not configured", apiErr.Detail)
}

func TestDealHandler_MoveStage_InvalidID(t *testing.T) {
	r := setupDealRouter(t)

	rec := doJSON(t, r, http.MethodPut, "/deals/not-a-uuid/stage", map[string]string{
		"stage": "lead",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDealHandler_Create_ValidationError(t *testing.T) {
	r := setupDealRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/deals", map[string]interface{}{
		"stage": "lead",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "title")
}

func TestDealHandler_GetPipeline(t *testing.T) {
	r := setupDealRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/deals", map[string]interface{}{
		"title":      "Acme rollout",
		"stage":      "lead",
		"valueCents": 25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/deals/pipeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var board domain.PipelineBoardDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&board))
	require.Len(t, board.Columns, 6)
	assert.Equal(t, 1, board.DealCount)
	assert.Equal(t, int64(25000), board.TotalCents)
}
