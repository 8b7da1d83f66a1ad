package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/flowcrm/crm-api/internal/repository"
	"github.com/flowcrm/crm-api/internal/service"
	"github.com/flowcrm/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newQuoteService(db *gorm.DB) *service.QuoteService {
	logger := zap.NewNop()
	return service.NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewDealRepository(db),
		service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger),
		repository.NewActivityRepository(db),
		logger,
	)
}

func createQuote(t *testing.T, svc *service.QuoteService) *domain.QuoteDTO {
	t.Helper()
	q, err := svc.Create(context.Background(), &domain.CreateQuoteRequest{
		CustomerName: "Acme Corp",
	})
	require.NoError(t, err)
	return q
}

func strPtr(s string) *string {
	return &s
}

func TestQuoteService_Create_Defaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("QUO-%d-001", year), q.QuoteNumber)
	assert.Equal(t, domain.QuoteStatusDraft, q.Status)
	assert.Equal(t, 0.08, q.TaxRate)

	require.Len(t, q.Items, 1)
	assert.Equal(t, 1, q.Items[0].LineNo)
	assert.Equal(t, int64(1), q.Items[0].Quantity)
	assert.Zero(t, q.Items[0].UnitPriceCents)

	assert.Zero(t, q.SubtotalCents)
	assert.Zero(t, q.TaxCents)
	assert.Zero(t, q.TotalCents)
}

func TestQuoteService_Create_SequentialNumbers(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	first := createQuote(t, svc)
	second := createQuote(t, svc)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("QUO-%d-001", year), first.QuoteNumber)
	assert.Equal(t, fmt.Sprintf("QUO-%d-002", year), second.QuoteNumber)
}

func TestQuoteService_UpdateItem_RecomputesTotals(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	updated, err := svc.UpdateItem(context.Background(), q.ID, 1, &domain.UpdateQuoteItemRequest{
		Description: strPtr("Consulting hours"),
		Quantity:    strPtr("3"),
		UnitPrice:   strPtr("50.00"),
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(3), updated.Items[0].Quantity)
	assert.Equal(t, int64(50_00), updated.Items[0].UnitPriceCents)
	assert.Equal(t, int64(150_00), updated.Items[0].TotalCents)

	assert.Equal(t, int64(150_00), updated.SubtotalCents)
	assert.Equal(t, int64(12_00), updated.TaxCents)
	assert.Equal(t, int64(162_00), updated.TotalCents)
}

func TestQuoteService_UpdateItem_GarbageCoercesToZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	_, err := svc.UpdateItem(context.Background(), q.ID, 1, &domain.UpdateQuoteItemRequest{
		Quantity:  strPtr("3"),
		UnitPrice: strPtr("50.00"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(context.Background(), q.ID, 1, &domain.UpdateQuoteItemRequest{
		UnitPrice: strPtr("abc"),
	})
	require.NoError(t, err)

	assert.Zero(t, updated.Items[0].UnitPriceCents)
	assert.Zero(t, updated.Items[0].TotalCents)
	assert.Zero(t, updated.SubtotalCents)
	assert.Zero(t, updated.TotalCents)
	// Quantity is untouched by a price-only edit
	assert.Equal(t, int64(3), updated.Items[0].Quantity)
}

func TestQuoteService_UpdateItem_UnknownLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	_, err := svc.UpdateItem(context.Background(), q.ID, 99, &domain.UpdateQuoteItemRequest{
		Quantity: strPtr("2"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestQuoteService_AddItem_LineNumbering(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	withSecond, err := svc.AddItem(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, withSecond.Items, 2)
	assert.Equal(t, 2, withSecond.Items[1].LineNo)
	assert.Equal(t, int64(1), withSecond.Items[1].Quantity)
	assert.Zero(t, withSecond.Items[1].UnitPriceCents)

	// Removing line 1 and adding again reuses max+1, not len+1
	_, err = svc.RemoveItem(context.Background(), q.ID, 1)
	require.NoError(t, err)

	withThird, err := svc.AddItem(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, withThird.Items, 2)
	assert.Equal(t, 2, withThird.Items[0].LineNo)
	assert.Equal(t, 3, withThird.Items[1].LineNo)
}

func TestQuoteService_RemoveItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	_, err := svc.UpdateItem(context.Background(), q.ID, 1, &domain.UpdateQuoteItemRequest{
		Quantity:  strPtr("2"),
		UnitPrice: strPtr("10.00"),
	})
	require.NoError(t, err)

	withSecond, err := svc.AddItem(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20_00), withSecond.SubtotalCents)

	afterRemove, err := svc.RemoveItem(context.Background(), q.ID, 1)
	require.NoError(t, err)
	require.Len(t, afterRemove.Items, 1)
	assert.Equal(t, 2, afterRemove.Items[0].LineNo)
	assert.Zero(t, afterRemove.SubtotalCents)
}

func TestQuoteService_RemoveItem_LastLineIsKept(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	got, err := svc.RemoveItem(context.Background(), q.ID, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].LineNo)
}

func TestQuoteService_RemoveItem_UnknownLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	_, err := svc.RemoveItem(context.Background(), q.ID, 7)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestQuoteService_Update_TaxRateRecomputes(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	_, err := svc.UpdateItem(context.Background(), q.ID, 1, &domain.UpdateQuoteItemRequest{
		Quantity:  strPtr("1"),
		UnitPrice: strPtr("100.00"),
	})
	require.NoError(t, err)

	rate := 0.25
	updated, err := svc.Update(context.Background(), q.ID, &domain.UpdateQuoteRequest{TaxRate: &rate})
	require.NoError(t, err)

	assert.Equal(t, int64(100_00), updated.SubtotalCents)
	assert.Equal(t, int64(25_00), updated.TaxCents)
	assert.Equal(t, int64(125_00), updated.TotalCents)
}

func TestQuoteService_Update_RejectsUnknownStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	q := createQuote(t, svc)

	bad := domain.QuoteStatus("archived")
	_, err := svc.Update(context.Background(), q.ID, &domain.UpdateQuoteRequest{Status: &bad})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestQuoteService_ExpireOverdue(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newQuoteService(db)

	overdue, err := svc.Create(context.Background(), &domain.CreateQuoteRequest{
		CustomerName: "Overdue Inc",
		ValidUntil:   "2020-01-01",
	})
	require.NoError(t, err)

	current, err := svc.Create(context.Background(), &domain.CreateQuoteRequest{
		CustomerName: "Current Inc",
		ValidUntil:   time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
	})
	require.NoError(t, err)

	// Approved quotes never expire, regardless of date
	approved, err := svc.Create(context.Background(), &domain.CreateQuoteRequest{
		CustomerName: "Approved Inc",
		ValidUntil:   "2020-01-01",
	})
	require.NoError(t, err)
	status := domain.QuoteStatusApproved
	_, err = svc.Update(context.Background(), approved.ID, &domain.UpdateQuoteRequest{Status: &status})
	require.NoError(t, err)

	expired, err := svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := svc.GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusExpired, got.Status)

	got, err = svc.GetByID(context.Background(), current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusDraft, got.Status)

	got, err = svc.GetByID(context.Background(), approved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusApproved, got.Status)
}
