package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{raw: "₹12,000.00", want: 12000, wantOK: true},
		{raw: "500", want: 500, wantOK: true},
		{raw: "$1,299.99", want: 1299.99, wantOK: true},
		{raw: " 42 ", want: 42, wantOK: true},
		{raw: "N/A", wantOK: false},
		{raw: "", wantOK: false},
		{raw: "₹", wantOK: false},
		{raw: "1.2.3", wantOK: false},
		{raw: ".", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CleanPrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCleanPrice_Idempotent(t *testing.T) {
	first, ok := CleanPrice("₹12,000.00")
	require.True(t, ok)

	second, ok := CleanPrice("12000")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: "4.2", want: ptr(4.2)},
		{raw: " 3 ", want: ptr(3.0)},
		{raw: "1,234", want: ptr(1234.0)},
		{raw: "", want: nil},
		{raw: "|", want: nil},
		{raw: "NaN", want: nil},
		{raw: "Inf", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceNumber(tt.raw))
		})
	}
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		raw  string
		want *int64
	}{
		{raw: "24,269", want: ptr(int64(24269))},
		{raw: "100.0", want: ptr(int64(100))},
		{raw: "100.5", want: nil},
		{raw: "many", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceCount(tt.raw))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
