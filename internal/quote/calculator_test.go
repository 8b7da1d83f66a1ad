package quote

import (
	"testing"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute(t *testing.T) {
	t.Run("three units at 50.00 with 8 percent tax", func(t *testing.T) {
		q := &domain.Quote{
			TaxRate: 0.08,
			Items: []domain.QuoteItem{
				{LineNo: 1, Quantity: 3, UnitPriceCents: 50_00},
			},
		}

		Recompute(q)

		assert.Equal(t, int64(150_00), q.Items[0].TotalCents)
		assert.Equal(t, int64(150_00), q.SubtotalCents)
		assert.Equal(t, int64(12_00), q.TaxCents)
		assert.Equal(t, int64(162_00), q.TotalCents)
	})

	t.Run("subtotal sums all item totals", func(t *testing.T) {
		q := &domain.Quote{
			TaxRate: 0.1,
			Items: []domain.QuoteItem{
				{LineNo: 1, Quantity: 2, UnitPriceCents: 10_00},
				{LineNo: 2, Quantity: 1, UnitPriceCents: 5_50},
				{LineNo: 3, Quantity: 0, UnitPriceCents: 99_99},
			},
		}

		Recompute(q)

		assert.Equal(t, int64(25_50), q.SubtotalCents)
		assert.Equal(t, int64(2_55), q.TaxCents)
		assert.Equal(t, int64(28_05), q.TotalCents)
	})

	t.Run("tax rounds to the nearest cent", func(t *testing.T) {
		q := &domain.Quote{
			TaxRate: 0.08,
			Items: []domain.QuoteItem{
				{LineNo: 1, Quantity: 1, UnitPriceCents: 1_06},
			},
		}

		Recompute(q)

		// 106 * 0.08 = 8.48, rounds to 8
		assert.Equal(t, int64(8), q.TaxCents)
		assert.Equal(t, int64(1_14), q.TotalCents)
	})

	t.Run("empty quote totals zero", func(t *testing.T) {
		q := &domain.Quote{TaxRate: 0.08}

		Recompute(q)

		assert.Zero(t, q.SubtotalCents)
		assert.Zero(t, q.TaxCents)
		assert.Zero(t, q.TotalCents)
	})
}

func TestAppendItem(t *testing.T) {
	t.Run("first item gets line number 1", func(t *testing.T) {
		items, lineNo := AppendItem(nil)
		assert.Equal(t, 1, lineNo)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].Quantity)
		assert.Zero(t, items[0].UnitPriceCents)
		assert.Zero(t, items[0].TotalCents)
	})

	t.Run("line numbers are max plus one after interior removal", func(t *testing.T) {
		items := []domain.QuoteItem{
			{LineNo: 1}, {LineNo: 2}, {LineNo: 3},
		}
		items, found := RemoveItem(items, 2)
		require.True(t, found)
		require.Len(t, items, 2)

		items, lineNo := AppendItem(items)
		assert.Equal(t, 4, lineNo)
		assert.Len(t, items, 3)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes the matching line", func(t *testing.T) {
		items := []domain.QuoteItem{
			{LineNo: 1, Description: "a"},
			{LineNo: 2, Description: "b"},
		}
		items, found := RemoveItem(items, 1)
		assert.True(t, found)
		require.Len(t, items, 1)
		assert.Equal(t, "b", items[0].Description)
	})

	t.Run("removing the only item is a no-op", func(t *testing.T) {
		items := []domain.QuoteItem{{LineNo: 1, Description: "keep me"}}
		items, found := RemoveItem(items, 1)
		assert.True(t, found)
		require.Len(t, items, 1)
		assert.Equal(t, "keep me", items[0].Description)
	})

	t.Run("unknown line number is reported", func(t *testing.T) {
		items := []domain.QuoteItem{{LineNo: 1}, {LineNo: 2}}
		items, found := RemoveItem(items, 9)
		assert.False(t, found)
		assert.Len(t, items, 2)
	})
}

func TestApplyItemUpdate(t *testing.T) {
	strp := func(s string) *string { return &s }

	t.Run("numeric strings update quantity and price", func(t *testing.T) {
		item := &domain.QuoteItem{LineNo: 1, Quantity: 1}
		ApplyItemUpdate(item, &domain.UpdateQuoteItemRequest{
			Quantity:  strp("3"),
			UnitPrice: strp("50"),
		})
		assert.Equal(t, int64(3), item.Quantity)
		assert.Equal(t, int64(50_00), item.UnitPriceCents)
		assert.Equal(t, int64(150_00), item.TotalCents)
	})

	t.Run("garbage price coerces to zero instead of failing", func(t *testing.T) {
		item := &domain.QuoteItem{LineNo: 1, Quantity: 3, UnitPriceCents: 50_00, TotalCents: 150_00}
		ApplyItemUpdate(item, &domain.UpdateQuoteItemRequest{
			UnitPrice: strp("abc"),
		})
		assert.Zero(t, item.UnitPriceCents)
		assert.Zero(t, item.TotalCents)
	})

	t.Run("garbage quantity coerces to zero", func(t *testing.T) {
		item := &domain.QuoteItem{LineNo: 1, Quantity: 3, UnitPriceCents: 50_00}
		ApplyItemUpdate(item, &domain.UpdateQuoteItemRequest{
			Quantity: strp("not-a-number"),
		})
		assert.Zero(t, item.Quantity)
		assert.Zero(t, item.TotalCents)
	})

	t.Run("description-only edit keeps amounts", func(t *testing.T) {
		item := &domain.QuoteItem{LineNo: 1, Quantity: 2, UnitPriceCents: 10_00}
		ApplyItemUpdate(item, &domain.UpdateQuoteItemRequest{
			Description: strp("Consulting"),
		})
		assert.Equal(t, "Consulting", item.Description)
		assert.Equal(t, int64(20_00), item.TotalCents)
	})
}
