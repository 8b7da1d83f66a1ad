package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"50", 50_00},
		{"49.99", 49_99},
		{"0.005", 1},
		{" 12.5 ", 12_50},
		{"abc", 0},
		{"", 0},
		{"-10", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseAmountCents(tc.in), "input %q", tc.in)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"3", 3},
		{"2.9", 2},
		{"0", 0},
		{"abc", 0},
		{"-4", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseQuantity(tc.in), "input %q", tc.in)
	}
}

func TestTaxCents(t *testing.T) {
	assert.Equal(t, int64(12_00), TaxCents(150_00, 0.08))
	assert.Equal(t, int64(8), TaxCents(1_06, 0.08))
	assert.Equal(t, int64(0), TaxCents(0, 0.08))
	assert.Equal(t, int64(0), TaxCents(150_00, 0))
}
