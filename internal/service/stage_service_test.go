package service_test

import (
	"context"
	"testing"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/flowcrm/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newStageService(db *gorm.DB) *service.StageService {
	return service.NewStageService(
		repository.NewStageRepository(db),
		repository.NewDealRepository(db),
		zap.NewNop(),
	)
}

func TestStageService_List_SeededStagesInOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newStageService(db)

	stages, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stages, 6)

	names := make([]string, len(stages))
	for i, stage := range stages {
		names[i] = stage.Name
	}
	assert.Equal(t, []string{"lead", "qualified", "proposal", "negotiation", "won", "lost"}, names)
}

func TestStageService_Create_CanonicalizesName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newStageService(db)

	stage, err := svc.Create(context.Background(), &domain.CreateStageRequest{
		Name:      "  On Hold ",
		Label:     "On Hold",
		SortOrder: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "on hold", stage.Name)
}

func TestStageService_Create_Duplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newStageService(db)

	_, err := svc.Create(context.Background(), &domain.CreateStageRequest{
		Name:  "LEAD",
		Label: "Lead again",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestStageService_Delete_StageInUse(t *testing.T) {
	db := testutil.NewTestDB(t)
	stageSvc := newStageService(db)
	dealSvc := newDealService(db)

	createDeal(t, dealSvc, "Blocking deal", "lead", 100_00)

	stages, err := stageSvc.List(context.Background())
	require.NoError(t, err)

	err = stageSvc.Delete(context.Background(), stages[0].ID)
	assert.ErrorIs(t, err, service.ErrStageInUse)
}

func TestStageService_Delete_EmptyStage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newStageService(db)

	stages, err := svc.List(context.Background())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), stages[0].ID)
	require.NoError(t, err)

	stages, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stages, 5)
}
