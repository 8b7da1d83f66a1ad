// Package quote holds the pure line item calculator. All money moves in
// minor currency units so totals never drift from float rounding. The
// persistence layer calls Recompute after every mutation; the invariant
// is that a stored quote always satisfies
// subtotal == sum(item totals), tax == round(subtotal*rate),
// total == subtotal + tax.
package quote

import (
	"github.com/flowcrm/crm-api/internal/domain"
)

// RecomputeItem sets the item total from quantity and unit price.
func RecomputeItem(item *domain.QuoteItem) {
	item.TotalCents = item.Quantity * item.UnitPriceCents
}

// Recompute recalculates every item total and then the quote subtotal,
// tax amount, and grand total.
func Recompute(q *domain.Quote) {
	var subtotal int64
	for i := range q.Items {
		RecomputeItem(&q.Items[i])
		subtotal += q.Items[i].TotalCents
	}
	q.SubtotalCents = subtotal
	q.TaxCents = domain.TaxCents(subtotal, q.TaxRate)
	q.TotalCents = q.SubtotalCents + q.TaxCents
}

// NextLineNo returns the line number for a newly appended item:
// one past the highest existing number, or 1 for an empty quote.
// Interior removals never cause numbers to be reused.
func NextLineNo(items []domain.QuoteItem) int {
	max := 0
	for _, it := range items {
		if it.LineNo > max {
			max = it.LineNo
		}
	}
	return max + 1
}

// AppendItem adds a fresh default line: quantity 1, zero price, zero
// total. Returns the new slice and the appended item's line number.
func AppendItem(items []domain.QuoteItem) ([]domain.QuoteItem, int) {
	lineNo := NextLineNo(items)
	items = append(items, domain.QuoteItem{
		LineNo:   lineNo,
		Quantity: 1,
	})
	return items, lineNo
}

// RemoveItem removes the item with the given line number. Removing the
// last remaining item is a silent no-op: a quote always keeps at least
// one line. The second return reports whether the line number existed
// (a no-op removal counts as found).
func RemoveItem(items []domain.QuoteItem, lineNo int) ([]domain.QuoteItem, bool) {
	idx := -1
	for i, it := range items {
		if it.LineNo == lineNo {
			idx = i
			break
		}
	}
	if idx == -1 {
		return items, false
	}
	if len(items) <= 1 {
		return items, true
	}
	return append(items[:idx], items[idx+1:]...), true
}

// FindItem returns a pointer to the item with the given line number,
// or nil when absent.
func FindItem(items []domain.QuoteItem, lineNo int) *domain.QuoteItem {
	for i := range items {
		if items[i].LineNo == lineNo {
			return &items[i]
		}
	}
	return nil
}

// ApplyItemUpdate applies a partial edit to an item. Quantity and unit
// price arrive as strings and coerce to zero when not numeric. The item
// total is recomputed; the caller recomputes the quote.
func ApplyItemUpdate(item *domain.QuoteItem, req *domain.UpdateQuoteItemRequest) {
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = domain.ParseQuantity(*req.Quantity)
	}
	if req.UnitPrice != nil {
		item.UnitPriceCents = domain.ParseAmountCents(*req.UnitPrice)
	}
	RecomputeItem(item)
}
