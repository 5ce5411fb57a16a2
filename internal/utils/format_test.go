package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPriceVND(t *testing.T) {
	tests := []struct {
		price int64
		want  string
	}{
		{0, "0 VNĐ"},
		{999, "999 VNĐ"},
		{1000, "1.000 VNĐ"},
		{25990000, "25.990.000 VNĐ"},
		{999999999, "999.999.999 VNĐ"},
		{-1500000, "-1.500.000 VNĐ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPriceVND(tt.price))
	}
}
