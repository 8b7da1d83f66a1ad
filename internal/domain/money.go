package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmountCents converts a user-supplied amount string (major units,
// e.g. "50" or "49.99") into minor units. Garbage input coerces to 0
// rather than failing, matching how line edits behave: typing a letter
// into a price field zeroes the value instead of raising an error.
func ParseAmountCents(s string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(math.Round(v * 100))
}

// ParseQuantity converts a user-supplied quantity string into an int64,
// coercing garbage and negatives to 0. Fractional quantities truncate.
func ParseQuantity(s string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(v)
}

// TaxCents computes the tax amount for a subtotal at the given fractional
// rate, rounded half-up to the nearest cent.
func TaxCents(subtotalCents int64, taxRate float64) int64 {
	return int64(math.Round(float64(subtotalCents) * taxRate))
}
