package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/flowcrm/crm-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDealService(db *gorm.DB) *service.DealService {
	logger := zap.NewNop()
	return service.NewDealService(
		repository.NewDealRepository(db),
		repository.NewStageRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewContactRepository(db),
		repository.NewDealStageHistoryRepository(db),
		repository.NewActivityRepository(db),
		logger,
	)
}

func createDeal(t *testing.T, svc *service.DealService, title, stage string, valueCents int64) *domain.DealDTO {
	t.Helper()
	deal, err := svc.Create(context.Background(), &domain.CreateDealRequest{
		Title:      title,
		Stage:      stage,
		ValueCents: valueCents,
	})
	require.NoError(t, err)
	return deal
}

func TestDealService_Create_NormalizesStage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	deal := createDeal(t, svc, "Acme rollout", "  Lead ", 10_00)
	assert.Equal(t, "lead", deal.Stage)
	assert.NotEmpty(t, deal.LastContact)
}

func TestDealService_Create_RejectsUnknownStage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	_, err := svc.Create(context.Background(), &domain.CreateDealRequest{
		Title: "Bad deal",
		Stage: "archived",
	})
	assert.ErrorIs(t, err, service.ErrStageNotFound)
}

func TestDealService_MoveStage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	deal := createDeal(t, svc, "Acme rollout", "lead", 500_00)

	before := time.Now().UTC().Add(-time.Second)
	moved, err := svc.MoveStage(context.Background(), deal.ID, &domain.MoveStageRequest{Stage: "QUALIFIED"})
	require.NoError(t, err)

	assert.Equal(t, "qualified", moved.Stage)

	lastContact, err := time.Parse("2006-01-02T15:04:05Z", moved.LastContact)
	require.NoError(t, err)
	assert.True(t, lastContact.After(before), "move must refresh last contact")

	history, err := svc.GetStageHistory(context.Background(), deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "lead", history[0].FromStage)
	assert.Equal(t, "qualified", history[0].ToStage)
}

func TestDealService_MoveStage_UnknownStage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	deal := createDeal(t, svc, "Acme rollout", "lead", 500_00)

	_, err := svc.MoveStage(context.Background(), deal.ID, &domain.MoveStageRequest{Stage: "archived"})
	assert.ErrorIs(t, err, service.ErrStageNotFound)

	// The deal is untouched
	got, err := svc.GetByID(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead", got.Stage)
}

func TestDealService_MoveStage_MissingDeal(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	_, err := svc.MoveStage(context.Background(), uuid.New(), &domain.MoveStageRequest{Stage: "lead"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDealService_MoveStage_SameStageSkipsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	deal := createDeal(t, svc, "Acme rollout", "lead", 500_00)

	_, err := svc.MoveStage(context.Background(), deal.ID, &domain.MoveStageRequest{Stage: "lead"})
	require.NoError(t, err)

	history, err := svc.GetStageHistory(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDealService_GetPipelineBoard(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newDealService(db)

	createDeal(t, svc, "First", "lead", 100_00)
	createDeal(t, svc, "Second", "lead", 250_00)
	createDeal(t, svc, "Third", "won", 1000_00)

	board, err := svc.GetPipelineBoard(context.Background())
	require.NoError(t, err)

	require.Len(t, board.Columns, 6)
	assert.Equal(t, 3, board.DealCount)
	assert.Equal(t, int64(1350_00), board.TotalCents)

	// Columns follow configured sort order
	assert.Equal(t, "lead", board.Columns[0].Stage.Name)
	assert.Equal(t, 2, board.Columns[0].DealCount)
	assert.Equal(t, int64(350_00), board.Columns[0].TotalCents)

	// Deal order within a column is creation order
	assert.Equal(t, "First", board.Columns[0].Deals[0].Title)
	assert.Equal(t, "Second", board.Columns[0].Deals[1].Title)

	// Empty stages still get a column
	assert.Equal(t, "qualified", board.Columns[1].Stage.Name)
	assert.Empty(t, board.Columns[1].Deals)
	assert.Zero(t, board.Columns[1].TotalCents)
}
