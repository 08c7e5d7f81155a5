package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want models.NullFloat
	}{
		{"4.2", models.Some(4.2)},
		{" 399 ", models.Some(399)},
		{"₹1,099", models.Some(1099)},
		{"$12.50", models.Some(12.5)},
		{"64%", models.Some(64)},
		{"-3", models.Some(-3)},
		{"1e3", models.Some(1000)},
		{"", models.Missing()},
		{"   ", models.Missing()},
		{"|", models.Missing()},
		{"abc", models.Missing()},
		{"NaN", models.Missing()},
		{"inf", models.Missing()},
		{"4.2 stars", models.Missing()},
		{"12,34", models.Missing()},
		{"1,2,3", models.Missing()},
		{",100", models.Missing()},
		{"1,0000", models.Missing()},
		{"1,234,567.89", models.Some(1234567.89)},
		{"-1,000", models.Some(-1000)},
		{"0x1p4", models.Missing()},
		{"0X10", models.Missing()},
		{"1_000", models.Missing()},
		{"1p3", models.Missing()},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestParseNumberMissingIsNotZero(t *testing.T) {
	got := ParseNumber("n/a")
	assert.False(t, got.Valid)
	assert.NotEqual(t, models.Some(0), got)
}

func TestNormalizePreservesOrderAndKeepsBadRows(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := []*models.RawProduct{
		{Category: "Electronics", ProductName: "  Cable   A ", Rating: "4.1", DiscountedPrice: "199"},
		{Category: "", ProductName: "Cable B", Rating: "oops", DiscountedPrice: ""},
		{Category: "Home", ProductName: "Lamp", Rating: "3.9", DiscountedPrice: "₹2,499", DiscountPercentage: "50%"},
	}

	ds := n.Normalize(raw)

	require.Len(t, ds, 3)
	assert.Equal(t, "Cable A", ds[0].ProductName)
	assert.Equal(t, models.Some(4.1), ds[0].Rating)
	assert.Equal(t, "", ds[1].Category)
	assert.False(t, ds[1].Rating.Valid)
	assert.False(t, ds[1].DiscountedPrice.Valid)
	assert.Equal(t, models.Some(2499), ds[2].DiscountedPrice)
	assert.Equal(t, models.Some(50), ds[2].DiscountPercentage)
	assert.False(t, ds[2].ActualPrice.Valid)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := []*models.RawProduct{
		{Category: "Computers", ProductName: "Mouse", UserName: "ana", Rating: "4.35",
			DiscountedPrice: "₹1,299.5", ActualPrice: "1999", DiscountPercentage: "35%"},
		{Category: "Computers", ProductName: "Pad", Rating: "", DiscountedPrice: "x"},
	}

	once := n.Normalize(raw)
	twice := n.Normalize(Denormalize(once))

	assert.Equal(t, once, twice)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := []*models.RawProduct{{Category: " Home ", Rating: "4"}}

	n.Normalize(raw)

	assert.Equal(t, " Home ", raw[0].Category)
}
