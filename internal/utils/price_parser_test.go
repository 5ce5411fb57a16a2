package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    *PriceRange
	}{
		{
			name:    "explicit range",
			message: "có điện thoại nào từ 5 đến 15 triệu không",
			want:    &PriceRange{Min: 5_000_000, Max: 15_000_000},
		},
		{
			name:    "below",
			message: "dưới 10 triệu",
			want:    &PriceRange{Min: 0, Max: 10_000_000},
		},
		{
			name:    "above",
			message: "có điện thoại nào trên 20 triệu không",
			want:    &PriceRange{Min: 20_000_000, Max: MaxPriceVND},
		},
		{
			name:    "budget phrasing",
			message: "có 7 triệu mua được điện thoại nào",
			want:    &PriceRange{Min: 0, Max: 7_000_000},
		},
		{
			name:    "case insensitive",
			message: "DƯỚI 3 TRIỆU",
			want:    &PriceRange{Min: 0, Max: 3_000_000},
		},
		{
			name:    "no price phrase",
			message: "điện thoại nào chụp ảnh đẹp",
			want:    nil,
		},
		{
			name:    "number without unit",
			message: "tầm 10 củ thì sao",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePriceRange(tt.message)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceRangeOverflow(t *testing.T) {
	// Amount no int64 can hold after the millions multiplier parse step.
	got := ParsePriceRange("dưới 99999999999999999999 triệu")
	assert.Nil(t, got)
}

func TestParseEntityPriceRange(t *testing.T) {
	got := ParseEntityPriceRange("khoảng 12 triệu")
	require.NotNil(t, got)
	assert.Equal(t, int64(0), got.Min)
	assert.Equal(t, int64(12_000_000), got.Max)

	assert.Nil(t, ParseEntityPriceRange("rẻ thôi"))
}

func TestPriceRangeValid(t *testing.T) {
	assert.True(t, (&PriceRange{Min: 0, Max: 10}).Valid())
	assert.True(t, (&PriceRange{Min: 5, Max: 5}).Valid())
	assert.False(t, (&PriceRange{Min: 10, Max: 5}).Valid())

	var nilRange *PriceRange
	assert.False(t, nilRange.Valid())
}
